package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Network.MaxPrivilegedAttrs != 4 {
		t.Fatalf("expected MaxPrivilegedAttrs=4, got %d", cfg.Network.MaxPrivilegedAttrs)
	}
	if cfg.Query.DefaultTimeout != 30*time.Second {
		t.Fatalf("expected default timeout 30s, got %v", cfg.Query.DefaultTimeout)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "reter" {
		t.Fatalf("expected default name, got %q", cfg.Name)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reter.yaml")
	cfg := DefaultConfig()
	cfg.Durability.Enabled = true
	cfg.Durability.DatabasePath = "custom.db"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.Durability.Enabled || loaded.Durability.DatabasePath != "custom.db" {
		t.Fatalf("round trip mismatch: %+v", loaded.Durability)
	}
}
