package effect

import (
	"math"

	"psepower/domain/core"
	"psepower/domain/design"
)

// Name identifies one effect of the repeated-measures decomposition.
// Records are keyed by effect name from the start; no positional or
// row-label indexing anywhere downstream.
type Name string

const (
	EffectColor         Name = "color"
	EffectContrast      Name = "contrast"
	EffectColorContrast Name = "color:contrast"
	// EffectSubject is the between-subject partition of the decomposition
	EffectSubject Name = "subject"
)

// Names lists the effects every complete analysis produces, in report order
var Names = []Name{EffectColor, EffectContrast, EffectColorContrast, EffectSubject}

// PSEEstimate is one per-group point of subjective equality: the stimulus
// value at which the fitted response probability crosses 0.5. Invalid marks
// groups whose logistic fit was degenerate; invalid estimates are excluded
// from the variance decomposition and counted for diagnostics.
type PSEEstimate struct {
	Subject  core.SubjectID  `json:"subject"`
	Color    design.Color    `json:"color"`
	Contrast design.Contrast `json:"contrast"`
	PSE      float64         `json:"pse"`
	Valid    bool            `json:"valid"`
	Reason   string          `json:"reason,omitempty"` // why the fit was rejected, when invalid
}

// SizeRecord is one effect's share of the variance decomposition for a
// single replication
type SizeRecord struct {
	Effect       Name    `json:"effect"`
	FStatistic   float64 `json:"f_statistic"`
	DFNumerator  float64 `json:"df_num"`
	DFDenom      float64 `json:"df_den"`
	PValue       float64 `json:"p_value"`
	PartialEtaSq float64 `json:"pes"`
	CohensF      float64 `json:"cohens_f"`
}

// CohensF converts partial variance explained to Cohen's f:
// f = sqrt(pes / (1 - pes)). A pes of 1 (all variance explained) maps to
// +Inf; callers treat that as a saturated decomposition.
func CohensF(partialEtaSq float64) float64 {
	if partialEtaSq >= 1 {
		return math.Inf(1)
	}
	if partialEtaSq <= 0 {
		return 0
	}
	return math.Sqrt(partialEtaSq / (1 - partialEtaSq))
}
