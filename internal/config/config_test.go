package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("AVAILABILITY_BUFFER_MINUTES", "")
	t.Setenv("SWEEP_INTERVAL", "")

	cfg := Load()

	if cfg.Addr() != ":8080" {
		t.Errorf("addr: want :8080, got %s", cfg.Addr())
	}
	if cfg.Scheduling.SlotBuffer() != 1 {
		t.Errorf("buffer: want 1h, got %v", cfg.Scheduling.SlotBuffer())
	}
	if cfg.Scheduling.SweepInterval != time.Minute {
		t.Errorf("sweep interval: want 1m, got %v", cfg.Scheduling.SweepInterval)
	}
	if !cfg.Scheduling.ExpirePending {
		t.Error("pending expiry should default to on")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("AVAILABILITY_BUFFER_MINUTES", "30")
	t.Setenv("SAME_DAY_OFFSET_MINUTES", "90")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("SWEEP_EXPIRE_PENDING", "false")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	if cfg.Addr() != ":9090" {
		t.Errorf("addr: want :9090, got %s", cfg.Addr())
	}
	if cfg.Scheduling.SlotBuffer() != 0.5 || cfg.Scheduling.SameDayOffset() != 1.5 {
		t.Errorf("unexpected scheduling config %+v", cfg.Scheduling)
	}
	if cfg.Scheduling.SweepInterval != 30*time.Second || cfg.Scheduling.ExpirePending {
		t.Errorf("unexpected sweep config %+v", cfg.Scheduling)
	}
	if !cfg.SMTP.Enabled() {
		t.Error("smtp should be enabled when host is set")
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("invalid REDIS_DB must fall back to 0, got %d", cfg.Redis.DB)
	}
}

func TestLoadCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " https://a.test, ,https://b.test ")

	cfg := Load()

	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://a.test" || cfg.CORSOrigins[1] != "https://b.test" {
		t.Errorf("origins = %q", cfg.CORSOrigins)
	}
}
