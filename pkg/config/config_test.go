package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/beadwork/pkg/model"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Defaults.AvailableHours != model.DefaultAvailableHours {
		t.Errorf("expected available_hours %d, got %d", model.DefaultAvailableHours, cfg.Defaults.AvailableHours)
	}
	if cfg.Defaults.MaxParallel != model.DefaultMaxParallel {
		t.Errorf("expected max_parallel %d, got %d", model.DefaultMaxParallel, cfg.Defaults.MaxParallel)
	}
	if cfg.Weights() != model.DefaultWeights() {
		t.Errorf("expected default weights, got %+v", cfg.Weights())
	}
	if !cfg.RequireAvailable() {
		t.Error("expected require_available to default true")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Defaults.AvailableHours != model.DefaultAvailableHours {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
sources:
  ratelimit_path: ~/work/ratelimits.json
  history_path: /absolute/history.jsonl
  solvers_path: /absolute/solvers.json

defaults:
  weights:
    speed: 2
    coverage: 1
    urgency: 0.5
  available_hours: 20
  max_parallel: 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, "work/ratelimits.json")
	if cfg.Sources.RateLimitPath != expected {
		t.Errorf("expected expanded path %q, got %q", expected, cfg.Sources.RateLimitPath)
	}
	if cfg.Sources.HistoryPath != "/absolute/history.jsonl" {
		t.Errorf("expected absolute path preserved, got %q", cfg.Sources.HistoryPath)
	}
	if cfg.Defaults.AvailableHours != 20 {
		t.Errorf("expected available_hours 20, got %d", cfg.Defaults.AvailableHours)
	}
	if w := cfg.Weights(); w.Speed != 2 || w.Coverage != 1 || w.Urgency != 0.5 {
		t.Errorf("expected weights {2 1 0.5}, got %+v", w)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Config{
		Sources: SourcesConfig{
			RateLimitPath: "/path/to/ratelimits.json",
			HistoryPath:   "/path/to/history.jsonl",
		},
		Defaults: DefaultsConfig{
			Weights:        WeightsConfig{Speed: 1, Coverage: 2, Urgency: 3},
			AvailableHours: 30,
			MaxParallel:    10,
		},
	}

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}

	if loaded.Sources.RateLimitPath != "/path/to/ratelimits.json" {
		t.Errorf("expected ratelimit_path to round-trip, got %q", loaded.Sources.RateLimitPath)
	}
	if loaded.Defaults.AvailableHours != 30 {
		t.Errorf("expected available_hours 30, got %d", loaded.Defaults.AvailableHours)
	}
	if w := loaded.Weights(); w.Speed != 1 || w.Coverage != 2 || w.Urgency != 3 {
		t.Errorf("expected weights {1 2 3}, got %+v", w)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"~/", filepath.Join(home, "")},
		{"/absolute", "/absolute"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		got := expandHome(tt.input)
		if got != tt.expected {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got := ConfigDir()
	expected := filepath.Join(dir, "planctl")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestRequireAvailable_ExplicitFalse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
experimental:
  require_available: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RequireAvailable() {
		t.Error("expected require_available to be false when explicitly set")
	}
}
