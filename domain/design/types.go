package design

import (
	"psepower/domain/core"
)

// Contrast is the contrast-polarity factor of the experiment
type Contrast string

const (
	ContrastPositive Contrast = "positive"
	ContrastNegative Contrast = "negative"
)

// Code returns the sum-to-zero contrast code for the level.
// Centered codes keep main-effect coefficients interpretable independent
// of the reference level.
func (c Contrast) Code() float64 {
	if c == ContrastPositive {
		return 0.5
	}
	return -0.5
}

// String returns the level name
func (c Contrast) String() string { return string(c) }

// Color is the within-subject color factor (present/absent)
type Color bool

const (
	ColorPresent Color = true
	ColorAbsent  Color = false
)

// Code returns the sum-to-zero contrast code for the level
func (c Color) Code() float64 {
	if c {
		return 0.5
	}
	return -0.5
}

// String returns the level name
func (c Color) String() string {
	if c {
		return "color"
	}
	return "no_color"
}

// Response is a single same/different judgment. Missing marks a response
// removed by the quality degrader or by real-data exclusion criteria.
type Response int8

const (
	ResponseDifferent Response = 0
	ResponseSame      Response = 1
	ResponseMissing   Response = -1
)

// IsMissing reports whether the response was excluded
func (r Response) IsMissing() bool { return r == ResponseMissing }

// Float returns the response as a 0/1 outcome for regression.
// Callers must filter missing responses first.
func (r Response) Float() float64 { return float64(r) }

// TrialShell is one cell of the factorial design before simulation:
// covariates only, no outcome.
type TrialShell struct {
	Subject   core.SubjectID `json:"subject"`
	Trial     int            `json:"trial"` // replicate-trial index within the cell
	Contrast  Contrast       `json:"contrast"`
	Color     Color          `json:"color"`
	SizeDelta float64        `json:"size_delta"` // signed stimulus size difference
	ColorE    float64        `json:"color_e"`    // centered code for Color
	ContrastE float64        `json:"contrast_e"` // centered code for Contrast
	Size      float64        `json:"size"`       // SizeDelta / 10, the model-scale covariate
}

// TrialRecord is a shell plus its simulated (or degraded) outcome
type TrialRecord struct {
	TrialShell
	Response Response `json:"response"`
}
