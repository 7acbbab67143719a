package estimator

import (
	"math"

	"psepower/domain/core"
	"psepower/domain/design"
	"psepower/domain/effect"
)

// GroupKey identifies one per-subject condition cell of the re-analysis.
// The key is explicit: groups drive a flat loop over independent fits, not
// a nested table of tables.
type GroupKey struct {
	Subject  core.SubjectID
	Color    design.Color
	Contrast design.Contrast
}

// PSEEstimator recovers a point of subjective equality per (subject, color,
// contrast) group by fitting a single-predictor logistic regression of the
// response on raw size_delta.
type PSEEstimator struct{}

// NewPSEEstimator creates a PSE estimator
func NewPSEEstimator() *PSEEstimator {
	return &PSEEstimator{}
}

type groupData struct {
	key GroupKey
	x   []float64
	y   []float64
}

// Estimate groups the records, fits each group, and derives
// pse = -intercept/slope. Rows with missing responses are excluded from the
// fits. Degenerate groups (single response level, near-zero slope,
// non-convergent or non-finite fit) yield invalid estimates with the
// rejection reason recorded; they are never silently dropped. Group order
// follows first appearance in the record sequence, so output order is
// deterministic.
func (e *PSEEstimator) Estimate(records []design.TrialRecord) []effect.PSEEstimate {
	byKey := make(map[GroupKey]*groupData)
	order := make([]*groupData, 0)

	for _, rec := range records {
		key := GroupKey{Subject: rec.Subject, Color: rec.Color, Contrast: rec.Contrast}
		group, ok := byKey[key]
		if !ok {
			group = &groupData{key: key}
			byKey[key] = group
			order = append(order, group)
		}
		if rec.Response.IsMissing() {
			continue
		}
		group.x = append(group.x, rec.SizeDelta)
		group.y = append(group.y, rec.Response.Float())
	}

	estimates := make([]effect.PSEEstimate, 0, len(order))
	for _, group := range order {
		estimates = append(estimates, e.estimateGroup(group))
	}
	return estimates
}

func (e *PSEEstimator) estimateGroup(group *groupData) effect.PSEEstimate {
	est := effect.PSEEstimate{
		Subject:  group.key.Subject,
		Color:    group.key.Color,
		Contrast: group.key.Contrast,
	}

	fit, err := FitLogistic(group.x, group.y)
	if err != nil {
		est.Valid = false
		est.Reason = err.Error()
		return est
	}

	if math.Abs(fit.Slope) < minSlope {
		est.Valid = false
		est.Reason = core.NewDegenerateFitError("slope ~ 0, PSE unbounded").Error()
		return est
	}

	pse := -fit.Intercept / fit.Slope
	if math.IsNaN(pse) || math.IsInf(pse, 0) {
		est.Valid = false
		est.Reason = core.NewDegenerateFitError("non-finite PSE").Error()
		return est
	}

	est.PSE = pse
	est.Valid = true
	return est
}

// CountInvalid returns the number of invalid estimates in a batch
func CountInvalid(estimates []effect.PSEEstimate) int {
	count := 0
	for _, est := range estimates {
		if !est.Valid {
			count++
		}
	}
	return count
}
