package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigReadsAllSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[typing]
min-delay = 30
max-delay = 120
typo-rate = 0.05
streak-rate = 0.3
streak-decay = 0.9
correction-pause = 250
countdown = 3
quiet = true

[modifiers]
newline = 3.5
delete = 0.5

[adjacency]
e = "wrds"
o = "ipl"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Typing.MinDelay == nil || *cfg.Typing.MinDelay != 30 {
		t.Errorf("min-delay = %v, want 30", cfg.Typing.MinDelay)
	}
	if cfg.Typing.MaxDelay == nil || *cfg.Typing.MaxDelay != 120 {
		t.Errorf("max-delay = %v, want 120", cfg.Typing.MaxDelay)
	}
	if cfg.Typing.TypoRate == nil || *cfg.Typing.TypoRate != 0.05 {
		t.Errorf("typo-rate = %v, want 0.05", cfg.Typing.TypoRate)
	}
	if cfg.Typing.Quiet == nil || !*cfg.Typing.Quiet {
		t.Errorf("quiet = %v, want true", cfg.Typing.Quiet)
	}
	if cfg.Modifiers.Newline == nil || *cfg.Modifiers.Newline != 3.5 {
		t.Errorf("newline modifier = %v, want 3.5", cfg.Modifiers.Newline)
	}
	if cfg.Modifiers.Uppercase != nil {
		t.Errorf("uppercase modifier = %v, want unset", cfg.Modifiers.Uppercase)
	}
	if got := cfg.Adjacency["e"]; got != "wrds" {
		t.Errorf("adjacency e = %q, want %q", got, "wrds")
	}
}

func TestLoadConfigMissingFileIsEmpty(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Typing.MinDelay != nil || cfg.Adjacency != nil {
		t.Fatalf("expected an empty config, got %+v", cfg)
	}
}

func TestLoadConfigRejectsEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected an error for an empty path")
	}
}

func TestLoadConfigRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[typing\nmin-delay = 1"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestAdjacencyOverrides(t *testing.T) {
	rows := map[string]string{"e": "wrds", "é": "er"}
	out, err := AdjacencyOverrides(rows)
	if err != nil {
		t.Fatalf("failed to convert adjacency: %v", err)
	}
	if got := string(out['e']); got != "wrds" {
		t.Errorf("neighbors for e = %q, want %q", got, "wrds")
	}
	if got := string(out['é']); got != "er" {
		t.Errorf("neighbors for é = %q, want %q", got, "er")
	}

	if _, err := AdjacencyOverrides(map[string]string{"ab": "c"}); err == nil {
		t.Fatal("expected an error for a multi-character key")
	}
	if out, err := AdjacencyOverrides(nil); err != nil || out != nil {
		t.Fatalf("nil rows should convert to nil, got %v, %v", out, err)
	}
}
