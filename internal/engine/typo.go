package engine

import (
	"math/rand/v2"
	"unicode"
)

// decideTypo decides whether ch is mistyped and returns the updated streak
// probability. Non-alphanumeric characters are never corrupted and leave the
// probability untouched. After a typo the probability jumps to the streak
// continuation value; after a clean character it decays toward the base rate
// but never below it.
func decideTypo(rnd *rand.Rand, ch rune, prob float64, cfg Config) (bool, float64) {
	if !isAlphanumeric(ch) {
		return false, prob
	}
	if rnd.Float64() < prob {
		return true, cfg.StreakProbability
	}
	next := prob * cfg.StreakDecay
	if next < cfg.TypoProbability {
		next = cfg.TypoProbability
	}
	return false, next
}

// substituteTypo picks the wrong character actually "typed" instead of ch:
// a uniform choice among ch's keyboard neighbors, case restored to match the
// intended character. Characters with no adjacency entry degrade to
// themselves, which still produces a visible delete-and-retype correction.
func substituteTypo(rnd *rand.Rand, ch rune, adjacency map[rune][]rune) rune {
	neighbors := adjacency[unicode.ToLower(ch)]
	if len(neighbors) == 0 {
		return ch
	}
	wrong := neighbors[rnd.IntN(len(neighbors))]
	if unicode.IsUpper(ch) {
		wrong = unicode.ToUpper(wrong)
	}
	return wrong
}

func isAlphanumeric(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch)
}
