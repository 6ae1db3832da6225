// Package sample generates practice payloads for simulation runs.
package sample

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/ghosttype/ghosttype/internal/model"
)

// Generator produces randomized sample text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator with a randomly chosen seed.
func New() *Generator {
	return NewSeeded(rand.Uint64())
}

// NewSeeded returns a Generator producing a reproducible word stream.
func NewSeeded(seed uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, 0xda3e39cb94b95bdb))}
}

// Text builds a space-joined payload from the word list per the config.
func (g *Generator) Text(words []string, cfg model.SampleConfig) (string, error) {
	if len(words) == 0 {
		return "", fmt.Errorf("word list is empty")
	}
	if cfg.Words <= 0 {
		return "", fmt.Errorf("word count must be positive, got %d", cfg.Words)
	}
	var picked []string
	if cfg.Weighted {
		picked = g.GenerateWeighted(words, cfg)
	} else {
		picked = g.Generate(words, cfg)
	}
	return strings.Join(picked, " "), nil
}

// Generate selects words uniformly and applies caps/punctuation rules.
func (g *Generator) Generate(words []string, cfg model.SampleConfig) []string {
	punctSet := []rune(cfg.PunctSet)
	result := make([]string, 0, cfg.Words)
	for i := 0; i < cfg.Words; i++ {
		word := words[g.rnd.IntN(len(words))]
		word = applyCaps(g.rnd, word, cfg.CapsPct)
		word = applyPunct(g.rnd, word, cfg.PunctPct, punctSet)
		result = append(result, word)
	}
	return result
}

// GenerateWeighted biases selection toward the front of the list. Word lists
// ordered by frequency then yield common words more often, like real prose.
func (g *Generator) GenerateWeighted(words []string, cfg model.SampleConfig) []string {
	weights := make([]float64, len(words))
	total := 0.0
	for i := range words {
		w := 1.0 / float64(i+1)
		weights[i] = w
		total += w
	}

	punctSet := []rune(cfg.PunctSet)
	result := make([]string, 0, cfg.Words)
	for i := 0; i < cfg.Words; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := 0
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		word := words[idx]
		word = applyCaps(g.rnd, word, cfg.CapsPct)
		word = applyPunct(g.rnd, word, cfg.PunctPct, punctSet)
		result = append(result, word)
	}
	return result
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.IntN(len(punctSet))]
	return word + string(punct)
}
