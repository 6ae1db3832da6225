// Package config loads the TOML configuration file and resolves XDG paths.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Pointer fields
// distinguish unset keys from explicit zero values when merging with flags.
type FileConfig struct {
	Typing    TypingConfig      `toml:"typing"`
	Modifiers ModifiersConfig   `toml:"modifiers"`
	Adjacency map[string]string `toml:"adjacency"`
}

// TypingConfig maps cadence and typo settings.
type TypingConfig struct {
	MinDelay        *int     `toml:"min-delay"`
	MaxDelay        *int     `toml:"max-delay"`
	TypoRate        *float64 `toml:"typo-rate"`
	StreakRate      *float64 `toml:"streak-rate"`
	StreakDecay     *float64 `toml:"streak-decay"`
	CorrectionPause *int     `toml:"correction-pause"`
	Countdown       *int     `toml:"countdown"`
	Quiet           *bool    `toml:"quiet"`
}

// ModifiersConfig maps per-class delay multipliers.
type ModifiersConfig struct {
	Newline     *float64 `toml:"newline"`
	Special     *float64 `toml:"special"`
	Punctuation *float64 `toml:"punctuation"`
	Uppercase   *float64 `toml:"uppercase"`
	Repeat      *float64 `toml:"repeat"`
	Frequent    *float64 `toml:"frequent"`
	Delete      *float64 `toml:"delete"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// AdjacencyOverrides converts the [adjacency] section into per-key neighbor
// lists. Keys must be exactly one character.
func AdjacencyOverrides(rows map[string]string) (map[rune][]rune, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	out := make(map[rune][]rune, len(rows))
	for key, neighbors := range rows {
		runes := []rune(key)
		if len(runes) != 1 {
			return nil, fmt.Errorf("adjacency key %q must be a single character", key)
		}
		out[runes[0]] = []rune(neighbors)
	}
	return out, nil
}
