package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/cafeops/orderdesk/internal/app/metrics"
	"github.com/cafeops/orderdesk/pkg/logger"
)

// MetricsMiddleware records request counts, durations and in-flight
// gauges, and logs each completed request.
type MetricsMiddleware struct {
	log *logger.Logger
}

// NewMetricsMiddleware creates a metrics and logging middleware.
func NewMetricsMiddleware(log *logger.Logger) *MetricsMiddleware {
	if log == nil {
		log = logger.NewDefault("http")
	}
	return &MetricsMiddleware{log: log}
}

// Handler returns the middleware handler.
func (m *MetricsMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		metrics.IncrementInFlight()
		defer metrics.DecrementInFlight()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		elapsed := time.Since(start)
		path := routeTemplate(r)
		metrics.RecordHTTPRequest(r.Method, path, strconv.Itoa(rw.status), elapsed.Seconds())

		entry := m.log.WithField("method", r.Method).
			WithField("path", r.URL.Path).
			WithField("status", rw.status).
			WithField("duration_ms", elapsed.Milliseconds())
		if user := UserFromContext(r.Context()); user != "" {
			entry = entry.WithField("user", user)
		}
		entry.Info("request handled")
	})
}

// routeTemplate labels metrics by the mux route pattern so that path
// parameters do not explode the label cardinality.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}
