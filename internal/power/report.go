package power

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"psepower/domain/core"
	"psepower/domain/effect"
)

// DefaultFThreshold is the conventional "medium" effect size used for the
// achieved-power figure when no threshold is configured
const DefaultFThreshold = 0.25

// EffectSummary characterizes one effect's Cohen's f sampling distribution
type EffectSummary struct {
	Effect    effect.Name
	N         int
	Mean      float64
	Median    float64
	StdDev    float64
	P2_5      float64
	P25       float64
	P75       float64
	P97_5     float64
	Threshold float64
	Power     float64 // proportion of replications with cohens_f >= Threshold
}

// Report is the user-facing summary of a power run
type Report struct {
	RunID      core.RunID
	Summaries  []EffectSummary
	Completed  int
	Skipped    int
	InvalidPSE int
	Excluded   int
}

// BuildReport summarizes each effect's accumulated Cohen's f values. Effects
// with no completed replications are reported with N = 0 rather than
// omitted.
func BuildReport(result *RunResult, threshold float64) (*Report, error) {
	if result == nil {
		return nil, core.NewParameterError("result", "must not be nil")
	}
	if threshold <= 0 {
		threshold = DefaultFThreshold
	}

	report := &Report{
		RunID:      result.RunID,
		Completed:  result.Completed,
		Skipped:    result.Skipped,
		InvalidPSE: result.InvalidPSEs,
		Excluded:   result.ExcludedSubj,
	}

	for _, name := range effect.Names {
		values := finiteValues(result.Distributions[name])
		summary := EffectSummary{Effect: name, N: len(values), Threshold: threshold}
		if len(values) > 0 {
			summary.Mean, _ = stats.Mean(values)
			summary.Median, _ = stats.Median(values)
			summary.StdDev, _ = stats.StandardDeviationSample(values)
			summary.P2_5, _ = stats.Percentile(values, 2.5)
			summary.P25, _ = stats.Percentile(values, 25)
			summary.P75, _ = stats.Percentile(values, 75)
			summary.P97_5, _ = stats.Percentile(values, 97.5)

			atOrAbove := 0
			for _, v := range values {
				if v >= threshold {
					atOrAbove++
				}
			}
			summary.Power = float64(atOrAbove) / float64(len(values))
		}
		report.Summaries = append(report.Summaries, summary)
	}

	return report, nil
}

// finiteValues drops the infinities a saturated decomposition can produce,
// keeping the quantile summaries meaningful
func finiteValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// String renders the report as a fixed-width table
func (r *Report) String() string {
	s := fmt.Sprintf("run %s: %d replications completed, %d skipped\n", r.RunID, r.Completed, r.Skipped)
	s += fmt.Sprintf("diagnostics: %d invalid PSE groups, %d listwise-excluded subjects\n", r.InvalidPSE, r.Excluded)
	s += fmt.Sprintf("%-16s %6s %8s %8s %8s %8s %8s %8s\n",
		"effect", "n", "mean f", "median", "sd", "2.5%", "97.5%", "power")
	for _, sum := range r.Summaries {
		s += fmt.Sprintf("%-16s %6d %8.4f %8.4f %8.4f %8.4f %8.4f %8.3f\n",
			sum.Effect, sum.N, sum.Mean, sum.Median, sum.StdDev, sum.P2_5, sum.P97_5, sum.Power)
	}
	return s
}
