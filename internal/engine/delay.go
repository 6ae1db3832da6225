package engine

import "math/rand/v2"

// expRate scales the exponential distribution so its mean sits a third of the
// way into the [min,max] window: many short gaps, occasional long ones.
const expRate = 3.0

// baseDelay draws one base inter-keystroke delay in milliseconds. The draw is
// exponential with rate expRate/(max-min), shifted by min and clamped to
// [min,max]. Modifiers are applied by the caller on top of the clamped value.
func baseDelay(rnd *rand.Rand, minMs, maxMs int) float64 {
	lo := float64(minMs)
	hi := float64(maxMs)
	if hi <= lo {
		return lo
	}
	delay := lo + rnd.ExpFloat64()*(hi-lo)/expRate
	return clampFloat(delay, lo, hi)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
