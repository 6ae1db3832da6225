package engine

import (
	"math/rand/v2"
	"testing"
	"unicode"
)

func TestDecideTypoSkipsNonAlphanumeric(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 1))
	cfg := DefaultConfig()
	for _, ch := range []rune{' ', '\n', '\t', '.', ',', '!', '-', '"'} {
		isTypo, next := decideTypo(rnd, ch, 1.0, cfg)
		if isTypo {
			t.Errorf("%q should never be mistyped", ch)
		}
		if next != 1.0 {
			t.Errorf("%q changed the live probability to %v", ch, next)
		}
	}
}

func TestDecideTypoCertainAndImpossible(t *testing.T) {
	rnd := rand.New(rand.NewPCG(42, 42))
	cfg := DefaultConfig()
	for i := 0; i < 100; i++ {
		if isTypo, next := decideTypo(rnd, 'a', 1.0, cfg); !isTypo {
			t.Fatal("probability 1 must always produce a typo")
		} else if next != cfg.StreakProbability {
			t.Fatalf("after a typo the live probability should be %v, got %v", cfg.StreakProbability, next)
		}
		if isTypo, next := decideTypo(rnd, 'a', 0, cfg); isTypo {
			t.Fatal("probability 0 must never produce a typo")
		} else if next != cfg.TypoProbability {
			t.Fatalf("decay should floor at the base probability %v, got %v", cfg.TypoProbability, next)
		}
	}
}

func TestDecideTypoProbabilityEvolution(t *testing.T) {
	rnd := rand.New(rand.NewPCG(99, 1))
	cfg := DefaultConfig()
	cfg.TypoProbability = 0.05
	cfg.StreakProbability = 0.5
	cfg.StreakDecay = 0.8

	prob := 0.9
	sawTypo, sawClean := false, false
	for i := 0; i < 500; i++ {
		isTypo, next := decideTypo(rnd, 'k', prob, cfg)
		if isTypo {
			sawTypo = true
			if next != cfg.StreakProbability {
				t.Fatalf("typo at step %d set probability to %v, want %v", i, next, cfg.StreakProbability)
			}
		} else {
			sawClean = true
			want := prob * cfg.StreakDecay
			if want < cfg.TypoProbability {
				want = cfg.TypoProbability
			}
			if next != want {
				t.Fatalf("clean char at step %d set probability to %v, want %v", i, next, want)
			}
		}
		prob = next
	}
	if !sawTypo || !sawClean {
		t.Fatalf("expected both outcomes over 500 draws, typo=%v clean=%v", sawTypo, sawClean)
	}
}

func TestSubstituteTypoPicksNeighbor(t *testing.T) {
	rnd := rand.New(rand.NewPCG(8, 8))
	adjacency := map[rune][]rune{'a': {'s', 'q'}}
	for i := 0; i < 100; i++ {
		got := substituteTypo(rnd, 'a', adjacency)
		if got != 's' && got != 'q' {
			t.Fatalf("substitution %q is not a neighbor of 'a'", got)
		}
	}
}

func TestSubstituteTypoRestoresCase(t *testing.T) {
	rnd := rand.New(rand.NewPCG(8, 9))
	adjacency := map[rune][]rune{'a': {'s', 'q'}}
	for i := 0; i < 100; i++ {
		got := substituteTypo(rnd, 'A', adjacency)
		if !unicode.IsUpper(got) {
			t.Fatalf("substitution %q lost the uppercase", got)
		}
		if got != 'S' && got != 'Q' {
			t.Fatalf("substitution %q is not an uppercased neighbor of 'a'", got)
		}
	}
}

func TestSubstituteTypoFallsBackToSelf(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	if got := substituteTypo(rnd, 'z', map[rune][]rune{}); got != 'z' {
		t.Errorf("missing adjacency row should fall back to the character, got %q", got)
	}
	if got := substituteTypo(rnd, 'z', map[rune][]rune{'z': {}}); got != 'z' {
		t.Errorf("empty adjacency row should fall back to the character, got %q", got)
	}
	if got := substituteTypo(rnd, '7', DefaultConfig().Adjacency); got != '7' {
		t.Errorf("digit without a row should fall back to itself, got %q", got)
	}
}

func TestQWERTYSubstitutionStaysLowercaseForLowercase(t *testing.T) {
	rnd := rand.New(rand.NewPCG(4, 4))
	adjacency := DefaultConfig().Adjacency
	for i := 0; i < 200; i++ {
		got := substituteTypo(rnd, 'e', adjacency)
		if !unicode.IsLower(got) {
			t.Fatalf("lowercase input produced %q", got)
		}
	}
}
