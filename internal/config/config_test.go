package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "nosuchenv")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Mode != "release" {
		t.Errorf("Mode = %q, want release", cfg.Mode)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.ReadLimit != 32768 {
		t.Errorf("ReadLimit = %d, want 32768", cfg.ReadLimit)
	}
	if cfg.PingPeriod != 54*time.Second {
		t.Errorf("PingPeriod = %v, want 54s", cfg.PingPeriod)
	}
	if cfg.WriteWait != 5*time.Second {
		t.Errorf("WriteWait = %v, want 5s", cfg.WriteWait)
	}
	if cfg.SendQueue != 32 {
		t.Errorf("SendQueue = %d, want 32", cfg.SendQueue)
	}
	if cfg.RateLimit != 64 {
		t.Errorf("RateLimit = %d, want 64", cfg.RateLimit)
	}
	if cfg.RateWindow != 10*time.Second {
		t.Errorf("RateWindow = %v, want 10s", cfg.RateWindow)
	}
	if len(cfg.StunServers) != 1 || cfg.StunServers[0] != "stun:stun.l.google.com:19302" {
		t.Errorf("StunServers = %v", cfg.StunServers)
	}
	if cfg.Turn.URL != "" {
		t.Errorf("Turn.URL = %q, want empty", cfg.Turn.URL)
	}
}

// A config file that cannot be parsed into the Config struct must surface
// an error so the caller can refuse to start, instead of running on a
// half-applied configuration.
func TestLoadBadConfigReturnsError(t *testing.T) {
	dir := filepath.Join(".", "config")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	file := filepath.Join(dir, "config.badtest.yaml")
	bad := []byte("port: not-a-number\nping_period: not-a-duration\n")
	if err := os.WriteFile(file, bad, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Remove(file)
		_ = os.Remove(dir)
	})

	t.Setenv("CONFIG_ENV", "badtest")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail on an unparsable config file")
	}
}
