package power

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psepower/domain/core"
	"psepower/domain/effect"
)

func syntheticResult() *RunResult {
	return &RunResult{
		RunID:  core.RunID(core.NewID()),
		Params: testParams(),
		Distributions: map[effect.Name][]float64{
			effect.EffectColor:         {0.1, 0.2, 0.3, 0.4},
			effect.EffectContrast:      {0.5, 0.6, 0.7, 0.8},
			effect.EffectColorContrast: {0.05, 0.1, math.Inf(1), 0.2},
			effect.EffectSubject:       {1.2, 1.4, 1.1, 1.3},
		},
		Completed: 4,
	}
}

func TestBuildReport_PowerProportion(t *testing.T) {
	report, err := BuildReport(syntheticResult(), 0.25)
	require.NoError(t, err)
	require.Len(t, report.Summaries, len(effect.Names))

	byEffect := make(map[effect.Name]EffectSummary)
	for _, summary := range report.Summaries {
		byEffect[summary.Effect] = summary
	}

	// color: 2 of 4 values at or above 0.25
	assert.Equal(t, 0.5, byEffect[effect.EffectColor].Power)
	// contrast: all above
	assert.Equal(t, 1.0, byEffect[effect.EffectContrast].Power)
	// subject: all above
	assert.Equal(t, 1.0, byEffect[effect.EffectSubject].Power)
}

func TestBuildReport_DropsNonFiniteValues(t *testing.T) {
	report, err := BuildReport(syntheticResult(), 0.25)
	require.NoError(t, err)

	for _, summary := range report.Summaries {
		if summary.Effect == effect.EffectColorContrast {
			assert.Equal(t, 3, summary.N, "Inf must be dropped from the summary")
			assert.False(t, math.IsInf(summary.Mean, 0))
		}
	}
}

func TestBuildReport_DefaultThreshold(t *testing.T) {
	report, err := BuildReport(syntheticResult(), 0)
	require.NoError(t, err)
	for _, summary := range report.Summaries {
		assert.Equal(t, DefaultFThreshold, summary.Threshold)
	}
}

func TestBuildReport_SummaryStatistics(t *testing.T) {
	report, err := BuildReport(syntheticResult(), 0.25)
	require.NoError(t, err)

	for _, summary := range report.Summaries {
		if summary.Effect != effect.EffectColor {
			continue
		}
		assert.InDelta(t, 0.25, summary.Mean, 1e-9)
		assert.InDelta(t, 0.25, summary.Median, 1e-9)
		assert.LessOrEqual(t, summary.P2_5, summary.P25)
		assert.LessOrEqual(t, summary.P25, summary.P75)
		assert.LessOrEqual(t, summary.P75, summary.P97_5)
	}
}

func TestBuildReport_NilResult(t *testing.T) {
	_, err := BuildReport(nil, 0.25)
	require.Error(t, err)
	assert.True(t, core.IsConfigurationError(err))
}

func TestReport_StringListsEveryEffect(t *testing.T) {
	report, err := BuildReport(syntheticResult(), 0.25)
	require.NoError(t, err)

	rendered := report.String()
	for _, name := range effect.Names {
		assert.True(t, strings.Contains(rendered, string(name)), "missing %s", name)
	}
	assert.True(t, strings.Contains(rendered, "power"))
}
