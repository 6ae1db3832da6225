package sample

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode"

	"github.com/ghosttype/ghosttype/internal/model"
)

func TestGenerateCount(t *testing.T) {
	g := NewSeeded(1)
	words := DefaultWords()
	got := g.Generate(words, model.SampleConfig{Words: 50})
	if len(got) != 50 {
		t.Fatalf("generated %d words, want 50", len(got))
	}
	inList := make(map[string]bool, len(words))
	for _, w := range words {
		inList[w] = true
	}
	for _, w := range got {
		if !inList[w] {
			t.Fatalf("generated %q, not in the word list", w)
		}
	}
}

func TestGenerateCapsAndPunct(t *testing.T) {
	g := NewSeeded(2)
	cfg := model.SampleConfig{Words: 40, CapsPct: 1, PunctPct: 1, PunctSet: ".!"}
	for _, w := range g.Generate(DefaultWords(), cfg) {
		runes := []rune(w)
		if !unicode.IsUpper(runes[0]) {
			t.Fatalf("word %q should be capitalized", w)
		}
		last := runes[len(runes)-1]
		if last != '.' && last != '!' {
			t.Fatalf("word %q should end with punctuation", w)
		}
	}
}

func TestGenerateSeededReproducible(t *testing.T) {
	cfg := model.SampleConfig{Words: 30, CapsPct: 0.3, PunctPct: 0.3, PunctSet: ".,!?"}
	words := DefaultWords()
	a, err := NewSeeded(7).Text(words, cfg)
	if err != nil {
		t.Fatalf("text failed: %v", err)
	}
	b, err := NewSeeded(7).Text(words, cfg)
	if err != nil {
		t.Fatalf("text failed: %v", err)
	}
	if a != b {
		t.Error("identical seeds produced different text")
	}
	c, err := NewSeeded(8).Text(words, cfg)
	if err != nil {
		t.Fatalf("text failed: %v", err)
	}
	if a == c {
		t.Error("different seeds produced identical text")
	}
}

func TestGenerateWeightedPrefersCommonWords(t *testing.T) {
	g := NewSeeded(3)
	words := []string{"alpha", "beta", "gamma", "delta"}
	counts := map[string]int{}
	for _, w := range g.GenerateWeighted(words, model.SampleConfig{Words: 2000}) {
		counts[w]++
	}
	if counts["alpha"] <= counts["delta"] {
		t.Errorf("rank bias missing: alpha=%d delta=%d", counts["alpha"], counts["delta"])
	}
	if counts["delta"] == 0 {
		t.Error("tail words should still appear")
	}
}

func TestTextJoinsWithSpaces(t *testing.T) {
	g := NewSeeded(4)
	text, err := g.Text(DefaultWords(), model.SampleConfig{Words: 25})
	if err != nil {
		t.Fatalf("text failed: %v", err)
	}
	if got := len(strings.Fields(text)); got != 25 {
		t.Errorf("payload has %d words, want 25", got)
	}
	if strings.Contains(text, "  ") {
		t.Error("payload contains double spaces")
	}
}

func TestTextRejectsBadInput(t *testing.T) {
	g := NewSeeded(5)
	if _, err := g.Text(nil, model.SampleConfig{Words: 10}); err == nil {
		t.Error("empty word list should fail")
	}
	if _, err := g.Text(DefaultWords(), model.SampleConfig{Words: 0}); err == nil {
		t.Error("zero word count should fail")
	}
}

func TestDefaultWordsOrderedAndClean(t *testing.T) {
	words := DefaultWords()
	if len(words) < 100 {
		t.Fatalf("built-in list has %d words", len(words))
	}
	if words[0] != "the" {
		t.Errorf("most common word is %q, want \"the\"", words[0])
	}
	seen := map[string]bool{}
	for _, w := range words {
		if w != strings.ToLower(w) {
			t.Errorf("word %q is not lowercase", w)
		}
		if seen[w] {
			t.Errorf("word %q appears twice", w)
		}
		seen[w] = true
	}
}

func TestLoadWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("alpha\n\n  beta  \ngamma\n"), 0o644); err != nil {
		t.Fatalf("failed to write word list: %v", err)
	}
	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	want := []string{"alpha", "beta", "gamma"}
	if len(words) != len(want) {
		t.Fatalf("loaded %d words, want %d", len(words), len(want))
	}
	for i, w := range want {
		if words[i] != w {
			t.Errorf("word %d = %q, want %q", i, words[i], w)
		}
	}
}

func TestLoadWordsErrors(t *testing.T) {
	if _, err := LoadWords(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("missing file should fail")
	}
	empty := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(empty, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := LoadWords(empty); err == nil {
		t.Error("empty list should fail")
	}
}
