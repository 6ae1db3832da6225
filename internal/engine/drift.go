package engine

import "math/rand/v2"

// Rhythm drift bounds. The multiplier random-walks inside [RhythmMin,
// RhythmMax] in steps of at most rhythmStep per character, so the session
// speeds up and slows down gradually rather than jumping.
const (
	RhythmMin  = 0.6
	RhythmMax  = 1.8
	rhythmStep = 0.03
)

// advanceRhythm nudges the rhythm multiplier by a uniform step in
// [-rhythmStep, rhythmStep] and clamps it to the rhythm bounds.
func advanceRhythm(rnd *rand.Rand, current float64) float64 {
	step := (rnd.Float64()*2 - 1) * rhythmStep
	return clampFloat(current+step, RhythmMin, RhythmMax)
}
