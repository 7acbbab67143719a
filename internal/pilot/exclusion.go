package pilot

import (
	"fmt"

	"psepower/domain/core"
	"psepower/ports"
)

// ExclusionSummary reports how much of the pilot data failed its quality
// criteria, per subject and overall
type ExclusionSummary struct {
	Trials     int
	Excluded   int
	Proportion float64
	BySubject  map[core.SubjectID]float64
}

// EstimateExclusion computes the empirical exclusion proportion from pilot
// trials. The overall proportion seeds the quality degrader so synthetic
// runs lose about as much data as the pilot did.
func EstimateExclusion(rows []ports.PilotRow) (*ExclusionSummary, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no pilot trials", core.ErrInsufficientData)
	}

	summary := &ExclusionSummary{
		Trials:    len(rows),
		BySubject: make(map[core.SubjectID]float64),
	}

	totals := make(map[core.SubjectID]int)
	excluded := make(map[core.SubjectID]int)
	for _, row := range rows {
		totals[row.Subject]++
		if row.Response.IsMissing() {
			summary.Excluded++
			excluded[row.Subject]++
		}
	}
	for subject, n := range totals {
		summary.BySubject[subject] = float64(excluded[subject]) / float64(n)
	}
	summary.Proportion = float64(summary.Excluded) / float64(summary.Trials)

	return summary, nil
}
