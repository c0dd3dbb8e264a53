package config

import (
	"os"
	"testing"
	"time"
)

func unsetServerEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BRIX_SSH_ADDR", "BRIX_HOST_KEY", "BRIX_DB", "BRIX_METRICS_ADDR",
		"BRIX_IDLE_TIMEOUT", "BRIX_LOBBY_TTL", "BRIX_TICK_RATE", "BRIX_LOG_LEVEL",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadServerDefaults(t *testing.T) {
	unsetServerEnv(t)

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.SSHAddr != ":23234" || cfg.DBPath != "~/.arcade/scores.db" {
		t.Errorf("unexpected addresses: %+v", cfg)
	}
	if cfg.IdleTimeout != 30*time.Minute || cfg.LobbyTTL != 2*time.Minute {
		t.Errorf("unexpected timeouts: %+v", cfg)
	}
	if cfg.TickRate != 30 || cfg.LogLevel != "info" || cfg.MetricsAddr != "" {
		t.Errorf("unexpected settings: %+v", cfg)
	}
}

func TestLoadServerFromEnv(t *testing.T) {
	unsetServerEnv(t)
	t.Setenv("BRIX_SSH_ADDR", ":2222")
	t.Setenv("BRIX_METRICS_ADDR", "127.0.0.1:9100")
	t.Setenv("BRIX_IDLE_TIMEOUT", "5m")
	t.Setenv("BRIX_TICK_RATE", "60")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.SSHAddr != ":2222" || cfg.MetricsAddr != "127.0.0.1:9100" {
		t.Errorf("addresses not read: %+v", cfg)
	}
	if cfg.IdleTimeout != 5*time.Minute || cfg.TickRate != 60 {
		t.Errorf("values not read: %+v", cfg)
	}
}

func TestLoadServerRejectsBadValues(t *testing.T) {
	unsetServerEnv(t)
	t.Setenv("BRIX_TICK_RATE", "fast")

	if _, err := LoadServer(); err == nil {
		t.Error("LoadServer() should fail on a non-numeric tick rate")
	}
}
