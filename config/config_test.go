package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCreatesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posterm.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL != "http://localhost:8080/database" {
		t.Fatalf("default backend url = %q", cfg.BackendURL)
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Fatalf("default timeout = %s", cfg.RequestTimeout())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file was not written: %v", err)
	}
	// Loading the written file round-trips.
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if *again != *cfg {
		t.Fatalf("reload mismatch: %+v vs %+v", again, cfg)
	}
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posterm.toml")
	content := "BackendURL = \"https://store.example.com/database\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL != "https://store.example.com/database" {
		t.Fatalf("backend url = %q", cfg.BackendURL)
	}
	if cfg.TerminalName != "lane-1" || cfg.RequestTimeoutSeconds != 10 {
		t.Fatalf("missing fields must fall back to defaults, got %+v", cfg)
	}
}

func TestLoadRejectsBadBackendURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posterm.toml")
	if err := os.WriteFile(path, []byte("BackendURL = \"ftp://store\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected scheme validation error")
	}
}

func TestValidateRejectsNegativeNotifyRate(t *testing.T) {
	cfg := defaults()
	cfg.PointsNotifyPerMinute = -1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}
