package engine

import (
	"fmt"

	"github.com/ghosttype/ghosttype/internal/keymap"
)

// Modifiers holds the per-class delay multipliers. Classification precedence
// is newline, standard punctuation, other punctuation/symbols, uppercase,
// repeat of the previous character, frequent letters, then 1.0. Delete
// applies to the backspace strokes of a correction burst.
type Modifiers struct {
	Newline     float64
	Special     float64
	Punctuation float64
	Uppercase   float64
	Repeat      float64
	Frequent    float64
	Delete      float64
}

// Config holds the immutable parameters of a typing session.
type Config struct {
	// MinDelayMs and MaxDelayMs bound the base inter-keystroke delay.
	MinDelayMs int
	MaxDelayMs int

	// TypoProbability is the base chance that an alphanumeric character is
	// mistyped. StreakProbability replaces the live probability right after
	// a typo, so slips tend to cascade; StreakDecay pulls the live
	// probability back toward the base after clean characters.
	TypoProbability   float64
	StreakProbability float64
	StreakDecay       float64

	// CorrectionPauseMs is the fixed "noticing the mistake" pause that opens
	// every correction burst.
	CorrectionPauseMs int

	Modifiers Modifiers

	// Adjacency maps a lowercase character to its physical keyboard
	// neighbors. Characters without an entry fall back to themselves when
	// substituted.
	Adjacency map[rune][]rune
}

// DefaultModifiers returns the stock modifier table.
func DefaultModifiers() Modifiers {
	return Modifiers{
		Newline:     4.0,
		Special:     2.0,
		Punctuation: 1.8,
		Uppercase:   1.4,
		Repeat:      0.6,
		Frequent:    0.85,
		Delete:      0.7,
	}
}

// DefaultConfig returns a configuration tuned to roughly 100 WPM with a 2%
// typo rate on a QWERTY layout.
func DefaultConfig() Config {
	return Config{
		MinDelayMs:        40,
		MaxDelayMs:        100,
		TypoProbability:   0.02,
		StreakProbability: 0.25,
		StreakDecay:       0.85,
		CorrectionPauseMs: 300,
		Modifiers:         DefaultModifiers(),
		Adjacency:         keymap.QWERTY(),
	}
}

// Validate reports the first invalid parameter. The engine never silently
// clamps configuration.
func (c Config) Validate() error {
	if c.MinDelayMs < 0 {
		return fmt.Errorf("min delay must be >= 0, got %d", c.MinDelayMs)
	}
	if c.MaxDelayMs < c.MinDelayMs {
		return fmt.Errorf("max delay %d must be >= min delay %d", c.MaxDelayMs, c.MinDelayMs)
	}
	if err := validateProbability("typo probability", c.TypoProbability); err != nil {
		return err
	}
	if err := validateProbability("streak probability", c.StreakProbability); err != nil {
		return err
	}
	if err := validateProbability("streak decay", c.StreakDecay); err != nil {
		return err
	}
	if c.CorrectionPauseMs < 0 {
		return fmt.Errorf("correction pause must be >= 0, got %d", c.CorrectionPauseMs)
	}
	for name, value := range map[string]float64{
		"newline":     c.Modifiers.Newline,
		"special":     c.Modifiers.Special,
		"punctuation": c.Modifiers.Punctuation,
		"uppercase":   c.Modifiers.Uppercase,
		"repeat":      c.Modifiers.Repeat,
		"frequent":    c.Modifiers.Frequent,
		"delete":      c.Modifiers.Delete,
	} {
		if value < 0 {
			return fmt.Errorf("%s modifier must be >= 0, got %v", name, value)
		}
	}
	return nil
}

func validateProbability(name string, value float64) error {
	if value < 0 || value > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %v", name, value)
	}
	return nil
}
