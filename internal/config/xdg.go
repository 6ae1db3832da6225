// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "ghosttype", "config.toml")
}

// DefaultWordlistPath returns the path of an optional user word list that
// replaces the embedded one when present.
func DefaultWordlistPath() string {
	return filepath.Join(XDGConfigHome(), "ghosttype", "words.txt")
}

// DefaultDBPath returns the default path for the SQLite run database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "ghosttype", "ghosttype.db")
}

// DefaultLogPath returns the default debug log path used by long-running
// commands.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), "ghosttype", "ghosttype.log")
}
