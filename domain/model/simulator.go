package model

import (
	"math/rand"

	"psepower/domain/core"
	"psepower/domain/design"
)

// Simulator computes the linear predictor for each trial shell and samples
// a binary response from the implied Bernoulli distribution.
type Simulator struct {
	fixef FixedEffectSet
}

// NewSimulator creates a simulator over a validated FixedEffectSet
func NewSimulator(fixef FixedEffectSet) *Simulator {
	return &Simulator{fixef: fixef}
}

// LinearPredictor evaluates the fixed part of the model plus the subject's
// random-intercept offset for one shell:
//
//	Y = intercept + sub_i
//	  + b_color*color.e + b_contrast*contrast.e + b_size*size
//	  + all two-way and the three-way interaction terms
func (s *Simulator) LinearPredictor(shell design.TrialShell, subjectIntercept float64) float64 {
	f := s.fixef
	return f.Intercept + subjectIntercept +
		f.ColorE*shell.ColorE +
		f.ContrastE*shell.ContrastE +
		f.Size*shell.Size +
		f.ColorContrast*shell.ColorE*shell.ContrastE +
		f.ColorSize*shell.ColorE*shell.Size +
		f.ContrastSize*shell.ContrastE*shell.Size +
		f.ColorContrastSize*shell.ColorE*shell.ContrastE*shell.Size
}

// Simulate samples one response for a shell given the subject's intercept
// offset
func (s *Simulator) Simulate(shell design.TrialShell, subjectIntercept float64, rng *rand.Rand) design.TrialRecord {
	p := Logistic(s.LinearPredictor(shell, subjectIntercept))
	response := design.ResponseDifferent
	if rng.Float64() < p {
		response = design.ResponseSame
	}
	return design.TrialRecord{TrialShell: shell, Response: response}
}

// SimulateAll simulates responses for an entire design. Random intercepts
// are drawn once per subject, at the subject's first shell, in shell order:
// given a fixed shell sequence and a fixed RNG stream the output is
// byte-identical across runs.
func (s *Simulator) SimulateAll(shells []design.TrialShell, rng *rand.Rand) ([]design.TrialRecord, []RandomEffectDraw) {
	records := make([]design.TrialRecord, 0, len(shells))
	intercepts := make(map[core.SubjectID]float64)
	draws := make([]RandomEffectDraw, 0)

	for _, shell := range shells {
		subI, ok := intercepts[shell.Subject]
		if !ok {
			subI = rng.NormFloat64() * s.fixef.SubjectSD
			intercepts[shell.Subject] = subI
			draws = append(draws, RandomEffectDraw{Subject: shell.Subject, Intercept: subI})
		}
		records = append(records, s.Simulate(shell, subI, rng))
	}

	return records, draws
}
