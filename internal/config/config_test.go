package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Analysis.StyleHint != nil || cfg.Store.Path != nil {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[analysis]
style-hint = "jazz"
knee-angle = 130.5

[store]
disable = true

[batch]
workers = 3

[chain]
endpoints = ["http://a", "http://b"]
timeout-ms = 2500
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Analysis.StyleHint == nil || *cfg.Analysis.StyleHint != "jazz" {
		t.Fatalf("unexpected style hint %v", cfg.Analysis.StyleHint)
	}
	if cfg.Analysis.KneeAngle == nil || *cfg.Analysis.KneeAngle != 130.5 {
		t.Fatalf("unexpected knee angle %v", cfg.Analysis.KneeAngle)
	}
	if cfg.Analysis.JumpThreshold != nil {
		t.Fatalf("expected unset jump threshold to stay nil")
	}
	if cfg.Store.Disable == nil || !*cfg.Store.Disable {
		t.Fatalf("expected store disabled")
	}
	if cfg.Batch.Workers == nil || *cfg.Batch.Workers != 3 {
		t.Fatalf("unexpected workers %v", cfg.Batch.Workers)
	}
	if len(cfg.Chain.Endpoints) != 2 || cfg.Chain.Endpoints[1] != "http://b" {
		t.Fatalf("unexpected endpoints %v", cfg.Chain.Endpoints)
	}
	if cfg.Chain.TimeoutMs == nil || *cfg.Chain.TimeoutMs != 2500 {
		t.Fatalf("unexpected timeout %v", cfg.Chain.TimeoutMs)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[analysis]\nknee = 90\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "analysis.knee") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movemint", "config.toml")
	if err := WriteTemplate(path); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("template should load: %v", err)
	}
	if cfg.Analysis.StyleHint != nil {
		t.Fatalf("expected commented keys to stay unset")
	}
	if err := WriteTemplate(path); err == nil {
		t.Fatalf("expected error when config exists")
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "movemint", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "movemint", "movemint.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultMetadataDir(); got != filepath.Join("/data", "movemint", "metadata") {
		t.Fatalf("unexpected metadata dir %q", got)
	}
}
