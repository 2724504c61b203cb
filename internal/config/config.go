// Package config provides configuration management for tourguide.
// Configuration is loaded with the following precedence:
// built-in defaults → config file → TOURGUIDE_* env vars → CLI flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/worksonmyai/tourguide/internal/dirs"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// StoreConfig selects and locates the persistence backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // memory | file | sqlite
	Path    string `yaml:"path"`    // backend file path (file/sqlite)
}

// Config holds all configuration settings for tourguide.
type Config struct {
	// Model is the path to the walkthrough model document.
	Model string `yaml:"model"`

	// Store selects the persistence backend.
	Store StoreConfig `yaml:"store"`

	// Journal enables per-session log files under LogsDir.
	Journal bool `yaml:"journal"`

	// LogsDir is the directory for session logs (default: state dir logs).
	LogsDir string `yaml:"logs_dir"`

	// sources tracks where values came from, for diagnostics.
	sources []string
}

// Sources returns a human-readable list of sources that contributed to this
// config.
func (c *Config) Sources() []string { return c.sources }

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    filepath.Join(dirs.StateDir(), "store.json"),
		},
		Journal: true,
		LogsDir: dirs.LogsDir(),
		sources: []string{"defaults"},
	}
}

// Load loads configuration from the default locations: built-in defaults,
// then <config dir>/config.yaml if present, then environment variables.
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(dirs.ConfigDir(), "config.yaml"))
}

// LoadFrom loads configuration using the given config file path. A missing
// file is not an error; the defaults and environment still apply.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file: defaults + env only.
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.sources = append(cfg.sources, path)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays TOURGUIDE_* environment variables.
func (c *Config) applyEnv() {
	applied := false
	if v := os.Getenv("TOURGUIDE_MODEL"); v != "" {
		c.Model = v
		applied = true
	}
	if v := os.Getenv("TOURGUIDE_STORE_BACKEND"); v != "" {
		c.Store.Backend = v
		applied = true
	}
	if v := os.Getenv("TOURGUIDE_STORE_PATH"); v != "" {
		c.Store.Path = v
		applied = true
	}
	if v := os.Getenv("TOURGUIDE_JOURNAL"); v != "" {
		c.Journal = v == "1" || v == "true"
		applied = true
	}
	if applied {
		c.sources = append(c.sources, "environment")
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown store backend %q (want %s, %s or %s)",
			c.Store.Backend, BackendMemory, BackendFile, BackendSQLite)
	}
	if c.Store.Backend != BackendMemory && c.Store.Path == "" {
		return fmt.Errorf("store backend %q requires store.path", c.Store.Backend)
	}
	return nil
}
