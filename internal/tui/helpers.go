package tui

import (
	"fmt"
	"os"

	"github.com/worksonmyai/tourguide/internal/config"
	"github.com/worksonmyai/tourguide/internal/model"
	"github.com/worksonmyai/tourguide/internal/store"
)

// loadConfig loads configuration, honoring the global --config flag.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// openStore opens the configured persistence backend.
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemory(), nil
	case config.BackendFile:
		return store.NewFile(cfg.Store.Path)
	case config.BackendSQLite:
		return store.NewSQLite(cfg.Store.Path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// resolveModel loads the walkthrough model. The flag overrides the config. A
// model that fails to load degrades to an empty model (a no-op walkthrough)
// with a warning, matching the engine's tolerance; strict is set by commands
// that exist to surface model errors.
func resolveModel(cfg *config.Config, flagModel string, strict bool) (*model.Model, string, error) {
	path := flagModel
	if path == "" {
		path = cfg.Model
	}
	if path == "" {
		if strict {
			return nil, "", fmt.Errorf("no model configured: pass --model or set model in config")
		}
		return &model.Model{}, "", nil
	}
	m, err := model.LoadFile(path)
	if err != nil {
		if strict {
			return nil, path, err
		}
		fmt.Fprintf(os.Stderr, "warning: %v; continuing with empty model\n", err)
		return &model.Model{}, path, nil
	}
	return m, path, nil
}
