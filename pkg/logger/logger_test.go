package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONFormatCarriesFields(t *testing.T) {
	log := New(LoggingConfig{Level: "debug", Format: "json"})
	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.WithField("order_id", "42").WithField("status", "Выполнен").Info("status updated")

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON log line: %v (%q)", err, buf.String())
	}
	if record["order_id"] != "42" || record["status"] != "Выполнен" {
		t.Fatalf("fields missing from record: %v", record)
	}
	if record["msg"] != "status updated" {
		t.Fatalf("unexpected message: %v", record["msg"])
	}
}

func TestLevelFiltering(t *testing.T) {
	log := New(LoggingConfig{Level: "warn", Format: "text"})
	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.Debug("hidden")
	log.Info("also hidden")
	log.Warnf("visible %d", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug/info should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "visible 1") {
		t.Fatalf("warn output missing: %q", out)
	}
}

func TestInvalidLevelDefaultsToInfo(t *testing.T) {
	log := New(LoggingConfig{Level: "shouting", Format: "text"})
	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.Info("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("info should pass with defaulted level")
	}
}
