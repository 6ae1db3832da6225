// Package model defines shared data structures.
package model

import "time"

// SampleConfig defines sample text generation settings.
type SampleConfig struct {
	Words        int
	CapsPct      float64
	PunctPct     float64
	PunctSet     string
	Weighted     bool
	WordlistPath string
}

// RunFilter defines filters and options for run reports.
type RunFilter struct {
	Source      string
	Since       *time.Time
	Last        int
	CurveWindow int
	Top         int
}

// RunRecord captures a completed simulation run.
type RunRecord struct {
	ID           string
	StartedAt    time.Time
	EndedAt      time.Time
	Source       string
	Chars        int
	Events       int
	Typos        int
	Corrections  int
	Deletes      int
	SimulatedMs  int64
	WallMs       int64
	Seed         uint64
	MinDelayMs   int
	MaxDelayMs   int
	TypoRate     float64
	BurstLengths map[int]int
}

// BurstBucket aggregates correction bursts of one length across runs.
type BurstBucket struct {
	Length int
	Count  int
}
