// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"

	"github.com/ghosttype/ghosttype/internal/model"
)

// TopRunsByWPM returns the n fastest runs by WPM.
func TopRunsByWPM(runs []model.RunRecord, n int) []model.RunRecord {
	if n <= 0 || len(runs) == 0 {
		return nil
	}
	out := make([]model.RunRecord, len(runs))
	copy(out, runs)
	sort.Slice(out, func(i, j int) bool {
		wi, _, _ := RunMetrics(out[i].Chars, out[i].Events, out[i].SimulatedMs)
		wj, _, _ := RunMetrics(out[j].Chars, out[j].Events, out[j].SimulatedMs)
		if wi == wj {
			return out[i].EndedAt.Before(out[j].EndedAt)
		}
		return wi > wj
	})
	if n > len(out) {
		n = len(out)
	}
	return out[:n]
}
