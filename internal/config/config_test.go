package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"CHORECHART_HOST", "CHORECHART_PORT", "CHORECHART_DB_PATH",
		"CHORECHART_DEBUG", "CHORECHART_LOG_LEVEL", "CHORECHART_SEED",
		"CHORECHART_UPDATE_RATE_LIMIT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Addr() != "0.0.0.0:5000" {
		t.Errorf("addr = %q, want 0.0.0.0:5000", cfg.Addr())
	}
	if cfg.DBPath != "chores.db" {
		t.Errorf("db path = %q, want chores.db", cfg.DBPath)
	}
	if cfg.Debug {
		t.Error("debug should default to false")
	}
	if !cfg.Seed {
		t.Error("seed should default to true")
	}
	if cfg.UpdateRateLimit != 120 {
		t.Errorf("rate limit = %d, want 120", cfg.UpdateRateLimit)
	}
	if cfg.Level() != "info" {
		t.Errorf("level = %q, want info", cfg.Level())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CHORECHART_HOST", "127.0.0.1")
	t.Setenv("CHORECHART_PORT", "8081")
	t.Setenv("CHORECHART_DEBUG", "true")
	t.Setenv("CHORECHART_SEED", "false")
	t.Setenv("CHORECHART_UPDATE_RATE_LIMIT", "30")

	cfg := Load()

	if cfg.Addr() != "127.0.0.1:8081" {
		t.Errorf("addr = %q", cfg.Addr())
	}
	if !cfg.Debug || cfg.Level() != "debug" {
		t.Errorf("debug = %v, level = %q", cfg.Debug, cfg.Level())
	}
	if cfg.Seed {
		t.Error("seed should be false")
	}
	if cfg.UpdateRateLimit != 30 {
		t.Errorf("rate limit = %d, want 30", cfg.UpdateRateLimit)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("CHORECHART_DEBUG", "maybe")
	t.Setenv("CHORECHART_UPDATE_RATE_LIMIT", "lots")

	cfg := Load()

	if cfg.Debug {
		t.Error("invalid bool should fall back to false")
	}
	if cfg.UpdateRateLimit != 120 {
		t.Errorf("rate limit = %d, want 120", cfg.UpdateRateLimit)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CHORECHART_DB_PATH=/tmp/from-dotenv.db\n"), 0600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(dir)
	t.Setenv("CHORECHART_DB_PATH", "")
	os.Unsetenv("CHORECHART_DB_PATH")

	cfg := Load()
	if cfg.DBPath != "/tmp/from-dotenv.db" {
		t.Errorf("db path = %q, want value from .env", cfg.DBPath)
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "Local"}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("local: %v", err)
	}
	if loc == nil {
		t.Fatal("nil location")
	}

	cfg.Timezone = "Not/AZone"
	if _, err := cfg.Location(); err == nil {
		t.Error("expected error for unknown zone")
	}
}
