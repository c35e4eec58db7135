package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/cafeops/orderdesk/internal/middleware"
)

// AuditEntry records one mutating API call.
type AuditEntry struct {
	Time   time.Time `json:"time"`
	User   string    `json:"user,omitempty"`
	Method string    `json:"method"`
	Path   string    `json:"path"`
	Status int       `json:"status"`
}

// AuditLog keeps the most recent mutating requests in a fixed-size ring.
type AuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
	next    int
	full    bool
}

// NewAuditLog creates an audit log retaining up to capacity entries.
func NewAuditLog(capacity int) *AuditLog {
	if capacity < 1 {
		capacity = 1
	}
	return &AuditLog{entries: make([]AuditEntry, capacity)}
}

// Record appends an entry, evicting the oldest when full.
func (a *AuditLog) Record(entry AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries[a.next] = entry
	a.next++
	if a.next == len(a.entries) {
		a.next = 0
		a.full = true
	}
}

// Recent returns retained entries, newest first.
func (a *AuditLog) Recent() []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	size := a.next
	if a.full {
		size = len(a.entries)
	}
	out := make([]AuditEntry, 0, size)
	for i := 1; i <= size; i++ {
		idx := (a.next - i + len(a.entries)) % len(a.entries)
		out = append(out, a.entries[idx])
	}
	return out
}

type auditResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *auditResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// middleware records every non-GET request with its outcome status.
func (a *AuditLog) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		rw := &auditResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		a.Record(AuditEntry{
			Time:   time.Now().UTC(),
			User:   middleware.UserFromContext(r.Context()),
			Method: r.Method,
			Path:   r.URL.Path,
			Status: rw.status,
		})
	})
}
