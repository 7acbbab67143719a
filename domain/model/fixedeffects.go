package model

import (
	"math"

	"psepower/domain/core"
)

// Term names a coefficient of the fitted pilot model. The set is fixed and
// enumerated at compile time: the simulator never parses model formulas, it
// maps each term to a deterministic function of the trial covariates.
type Term string

const (
	TermIntercept         Term = "intercept"
	TermColor             Term = "color_e"
	TermContrast          Term = "contrast_e"
	TermSize              Term = "size"
	TermColorContrast     Term = "color_e:contrast_e"
	TermColorSize         Term = "color_e:size"
	TermContrastSize      Term = "contrast_e:size"
	TermColorContrastSize Term = "color_e:contrast_e:size"

	// TermSubjectSD is the random-intercept standard deviation of the
	// pilot fit, not a fixed-effect coefficient.
	TermSubjectSD Term = "sd_subject"
)

// RequiredTerms is the exact term set a coefficient table must provide.
// A missing term is a fatal configuration error, never a silent zero.
var RequiredTerms = []Term{
	TermIntercept,
	TermColor,
	TermContrast,
	TermSize,
	TermColorContrast,
	TermColorSize,
	TermContrastSize,
	TermColorContrastSize,
	TermSubjectSD,
}

// FixedEffectSet holds the pilot model's fixed-effect estimates and the
// random-intercept SD as an explicit typed mapping. Construction validates
// the term set; a validated set needs no further checking downstream and is
// passed by value into every simulation call.
type FixedEffectSet struct {
	Intercept         float64
	ColorE            float64
	ContrastE         float64
	Size              float64
	ColorContrast     float64
	ColorSize         float64
	ContrastSize      float64
	ColorContrastSize float64
	SubjectSD         float64
}

// NewFixedEffectSet builds a validated FixedEffectSet from a coefficient
// table. Every required term must be present, no unknown terms are allowed,
// and all estimates must be finite. The random-intercept SD must be >= 0.
func NewFixedEffectSet(coefficients map[Term]float64) (FixedEffectSet, error) {
	required := make(map[Term]bool, len(RequiredTerms))
	for _, term := range RequiredTerms {
		required[term] = true
	}

	for term, estimate := range coefficients {
		if !required[term] {
			return FixedEffectSet{}, core.NewUnknownTermError(string(term))
		}
		if math.IsNaN(estimate) || math.IsInf(estimate, 0) {
			return FixedEffectSet{}, core.NewParameterError(string(term), "must be finite")
		}
	}
	for _, term := range RequiredTerms {
		if _, ok := coefficients[term]; !ok {
			return FixedEffectSet{}, core.NewMissingTermError(string(term))
		}
	}
	if coefficients[TermSubjectSD] < 0 {
		return FixedEffectSet{}, core.NewParameterError(string(TermSubjectSD), "must be >= 0")
	}

	return FixedEffectSet{
		Intercept:         coefficients[TermIntercept],
		ColorE:            coefficients[TermColor],
		ContrastE:         coefficients[TermContrast],
		Size:              coefficients[TermSize],
		ColorContrast:     coefficients[TermColorContrast],
		ColorSize:         coefficients[TermColorSize],
		ContrastSize:      coefficients[TermContrastSize],
		ColorContrastSize: coefficients[TermColorContrastSize],
		SubjectSD:         coefficients[TermSubjectSD],
	}, nil
}

// Coefficients returns the set as a term-keyed table, for reporting
func (f FixedEffectSet) Coefficients() map[Term]float64 {
	return map[Term]float64{
		TermIntercept:         f.Intercept,
		TermColor:             f.ColorE,
		TermContrast:          f.ContrastE,
		TermSize:              f.Size,
		TermColorContrast:     f.ColorContrast,
		TermColorSize:         f.ColorSize,
		TermContrastSize:      f.ContrastSize,
		TermColorContrastSize: f.ColorContrastSize,
		TermSubjectSD:         f.SubjectSD,
	}
}

// RandomEffectDraw is one subject's random-intercept offset for a single
// replication: N(0, SubjectSD), drawn once per subject and constant across
// that subject's trials.
type RandomEffectDraw struct {
	Subject   core.SubjectID
	Intercept float64
}
