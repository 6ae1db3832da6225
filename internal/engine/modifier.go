package engine

import (
	"strings"
	"unicode"
)

// frequentLetters are the ten most common English letters; they carry the
// fast-finger discount.
const frequentLetters = "etaoinshrd"

const standardPunct = ".,!?;:"

// modifierFor classifies ch against the modifier table. First match wins:
// newline, standard punctuation, other punctuation/symbols, uppercase, repeat
// of prev, frequent letter, default 1.0. hasPrev guards the repeat rule at
// the start of input and right after a correction pause.
func modifierFor(m Modifiers, ch, prev rune, hasPrev bool) float64 {
	switch {
	case ch == '\n':
		return m.Newline
	case strings.ContainsRune(standardPunct, ch):
		return m.Punctuation
	case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
		return m.Special
	case unicode.IsUpper(ch):
		return m.Uppercase
	case hasPrev && ch == prev:
		return m.Repeat
	case strings.ContainsRune(frequentLetters, ch):
		return m.Frequent
	default:
		return 1.0
	}
}
