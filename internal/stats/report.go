// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"

	"github.com/ghosttype/ghosttype/internal/model"
	"github.com/ghosttype/ghosttype/internal/store"
)

// Report contains precomputed data for report rendering.
type Report struct {
	Runs   []model.RunRecord
	Bursts []model.BurstBucket
}

// BuildReport loads and prepares run data for rendering.
func BuildReport(ctx context.Context, st *store.Store, filter model.RunFilter) (Report, error) {
	runs, err := st.ListRuns(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	if filter.Last > 0 && len(runs) > filter.Last {
		runs = runs[len(runs)-filter.Last:]
	}

	bursts, err := st.BurstHistogram(ctx, runIDs(runs))
	if err != nil {
		return Report{}, err
	}

	return Report{
		Runs:   runs,
		Bursts: bursts,
	}, nil
}

func runIDs(runs []model.RunRecord) []string {
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	return ids
}
