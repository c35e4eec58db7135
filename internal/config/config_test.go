package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Fatalf("addr = %s", cfg.Server.Addr())
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RequestsPerSecond != 20 {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.Reporter.Schedule != "@hourly" {
		t.Fatalf("reporter schedule = %s", cfg.Reporter.Schedule)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9090
  read_timeout: 5s
database:
  dsn: postgres://localhost/orderdesk
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("file values not applied: %+v", cfg.Server)
	}
	if cfg.Database.DSN != "postgres://localhost/orderdesk" {
		t.Fatalf("dsn = %s", cfg.Database.DSN)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging config not applied: %+v", cfg.Logging)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.WriteTimeout != 15*time.Second {
		t.Fatalf("write timeout default lost: %v", cfg.Server.WriteTimeout)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "server:\n  port: 9090\nlogging:\n  level: debug\n  format: json\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Fatalf("env override lost: port = %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("logging env override lost: level = %s", cfg.Logging.Level)
	}
	// Env vars that are unset must leave file values alone.
	if cfg.Logging.Format != "json" {
		t.Fatalf("unset env var overwrote file value: format = %s", cfg.Logging.Format)
	}
}

func TestMissingSecretRejected(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for missing auth secret")
	}
}
