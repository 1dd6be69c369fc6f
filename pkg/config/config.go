// Package config handles loading and saving planctl's configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/planctl/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/beadwork/pkg/model"
)

// SourcesConfig names the default collaborator files planctl reads when
// a flag is left unset: the rate-limit snapshot, the completion-log
// JSONL history, and the solver-capability registry (SPEC_FULL.md §6).
type SourcesConfig struct {
	RateLimitPath string `yaml:"ratelimit_path,omitempty"`
	HistoryPath   string `yaml:"history_path,omitempty"`
	SolversPath   string `yaml:"solvers_path,omitempty"`
}

// DefaultsConfig carries the PlanRequest tunables a caller would
// otherwise repeat on every invocation.
type DefaultsConfig struct {
	Weights        WeightsConfig `yaml:"weights,omitempty"`
	AvailableHours int           `yaml:"available_hours,omitempty"`
	MaxParallel    int           `yaml:"max_parallel,omitempty"`
}

// WeightsConfig is the YAML shape of model.Weights.
type WeightsConfig struct {
	Speed    float64 `yaml:"speed,omitempty"`
	Coverage float64 `yaml:"coverage,omitempty"`
	Urgency  float64 `yaml:"urgency,omitempty"`
}

// ExperimentalConfig holds feature flags not yet promoted to stable
// defaults.
type ExperimentalConfig struct {
	RequireAvailable *bool `yaml:"require_available,omitempty"`
}

// Config is planctl's top-level on-disk configuration.
type Config struct {
	Sources      SourcesConfig      `yaml:"sources,omitempty"`
	Defaults     DefaultsConfig     `yaml:"defaults,omitempty"`
	Experimental ExperimentalConfig `yaml:"experimental,omitempty"`
}

// DefaultConfig returns a Config with the core's own defaults (§3).
func DefaultConfig() Config {
	return Config{
		Defaults: DefaultsConfig{
			Weights:        WeightsConfig{Speed: 1, Coverage: 1, Urgency: 1},
			AvailableHours: model.DefaultAvailableHours,
			MaxParallel:    model.DefaultMaxParallel,
		},
	}
}

// ConfigDir returns the XDG config directory for planctl.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "planctl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "planctl")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory, returning
// DefaultConfig if none exists.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. Returns DefaultConfig if
// the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Sources.RateLimitPath = expandHome(cfg.Sources.RateLimitPath)
	cfg.Sources.HistoryPath = expandHome(cfg.Sources.HistoryPath)
	cfg.Sources.SolversPath = expandHome(cfg.Sources.SolversPath)

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Weights converts the config's WeightsConfig into model.Weights,
// returning the default 1.0 for every dimension only when all three are
// zero; a partially set config keeps its zeros.
func (c Config) Weights() model.Weights {
	w := model.Weights{Speed: c.Defaults.Weights.Speed, Coverage: c.Defaults.Weights.Coverage, Urgency: c.Defaults.Weights.Urgency}
	if w == (model.Weights{}) {
		return model.DefaultWeights()
	}
	return w
}

// RequireAvailable reports the configured require_available default,
// falling back to true (the core's own default) when unset.
func (c Config) RequireAvailable() bool {
	if c.Experimental.RequireAvailable == nil {
		return true
	}
	return *c.Experimental.RequireAvailable
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
