package httpapi

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestAuditLogEviction(t *testing.T) {
	log := NewAuditLog(3)
	for i := 0; i < 5; i++ {
		log.Record(AuditEntry{
			Time:   time.Now(),
			Method: http.MethodPost,
			Path:   fmt.Sprintf("/api/menu/%d", i),
			Status: http.StatusOK,
		})
	}

	recent := log.Recent()
	if len(recent) != 3 {
		t.Fatalf("expected 3 retained entries, got %d", len(recent))
	}
	if recent[0].Path != "/api/menu/4" {
		t.Fatalf("newest first: got %s", recent[0].Path)
	}
	if recent[2].Path != "/api/menu/2" {
		t.Fatalf("oldest retained: got %s", recent[2].Path)
	}
}

func TestAuditLogEmpty(t *testing.T) {
	log := NewAuditLog(8)
	if got := log.Recent(); len(got) != 0 {
		t.Fatalf("expected no entries, got %d", len(got))
	}
}
