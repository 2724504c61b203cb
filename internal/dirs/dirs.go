// Package dirs provides XDG Base Directory Specification compliant paths
// for all tourguide directories.
package dirs

import (
	"os"
	"path/filepath"
)

// ConfigDir returns the tourguide configuration directory.
// Resolution order: XDG_CONFIG_HOME/tourguide > ~/.config/tourguide.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tourguide")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "tourguide")
	}
	return filepath.Join(home, ".config", "tourguide")
}

// StateDir returns the tourguide state directory.
// Resolution order: TOURGUIDE_STATE_DIR > XDG_STATE_HOME/tourguide > ~/.local/state/tourguide.
func StateDir() string {
	if dir := os.Getenv("TOURGUIDE_STATE_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "tourguide")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".local", "state", "tourguide")
	}
	return filepath.Join(home, ".local", "state", "tourguide")
}

// LogsDir returns the tourguide logs directory (StateDir/logs).
func LogsDir() string {
	return filepath.Join(StateDir(), "logs")
}
