package stagehand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stagehand.yaml")
	data := []byte(`
title: Lanterns
width: 800
show_fps: true
storage_path: save.db
log_level: debug
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.Title = "Lanterns"
	want.Width = 800
	want.ShowFPS = true
	want.StoragePath = "save.db"
	want.LogLevel = "debug"
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("width: [1, 2"), 0o644)
	if _, err := LoadConfig(bad); err == nil {
		t.Error("expected error for malformed yaml")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("tps: -1"), 0o644)
	if _, err := LoadConfig(invalid); err == nil {
		t.Error("expected error for negative tps")
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{Title: "x", Height: 300, Debug: true, LogFormat: "json"})

	if cfg.Title != "x" || cfg.Height != 300 || !cfg.Debug || cfg.LogFormat != "json" {
		t.Errorf("merge did not apply: %+v", cfg)
	}
	if cfg.Width != 960 || cfg.TPS != 60 || !cfg.Resizable {
		t.Errorf("merge clobbered defaults: %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"zero tps", func(c *Config) { c.TPS = 0 }},
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
