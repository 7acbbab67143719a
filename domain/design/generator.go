package design

import (
	"psepower/domain/core"
)

// sizeScale converts raw size_delta to the model-scale covariate
const sizeScale = 10.0

// sizeMagnitudes are the absolute stimulus size differences of the design
var sizeMagnitudes = []float64{0, 10, 20, 30, 40, 50, 60, 70, 80}

// sizeSigns crosses each magnitude with both directions. Magnitude 0 crossed
// with both signs yields two identical size_delta = 0 shells per cell; the
// reference design carries that doubled zero weight and the generator
// reproduces it rather than deduplicating.
var sizeSigns = []float64{1, -1}

// Generator builds the factorial trial-level design skeleton
type Generator struct {
	subjectN int
	trialN   int
}

// NewGenerator creates a design generator for subjectN subjects with trialN
// replicate trials per cell. Counts must be positive.
func NewGenerator(subjectN, trialN int) (*Generator, error) {
	if subjectN <= 0 {
		return nil, core.NewParameterError("subj_n", "must be > 0")
	}
	if trialN <= 0 {
		return nil, core.NewParameterError("trial_n", "must be > 0")
	}
	return &Generator{subjectN: subjectN, trialN: trialN}, nil
}

// CellsPerSubject returns the number of shells generated per subject
func (g *Generator) CellsPerSubject() int {
	return g.trialN * 2 * 2 * len(sizeMagnitudes) * len(sizeSigns)
}

// Generate crosses subjects x replicate trials x contrast x color x
// magnitude x sign into a flat shell sequence. Order is deterministic:
// fixing the inputs fixes the exact sequence, which downstream seeded
// simulation depends on for reproducibility.
func (g *Generator) Generate() []TrialShell {
	shells := make([]TrialShell, 0, g.subjectN*g.CellsPerSubject())

	for s := 1; s <= g.subjectN; s++ {
		subject := core.NewSubjectID(s)
		for trial := 1; trial <= g.trialN; trial++ {
			for _, contrast := range []Contrast{ContrastPositive, ContrastNegative} {
				for _, color := range []Color{ColorPresent, ColorAbsent} {
					for _, magnitude := range sizeMagnitudes {
						for _, sign := range sizeSigns {
							delta := magnitude * sign
							shells = append(shells, TrialShell{
								Subject:   subject,
								Trial:     trial,
								Contrast:  contrast,
								Color:     color,
								SizeDelta: delta,
								ColorE:    color.Code(),
								ContrastE: contrast.Code(),
								Size:      delta / sizeScale,
							})
						}
					}
				}
			}
		}
	}

	return shells
}

// SizeLevels returns the signed size_delta values of one design cell,
// duplicate zero included
func SizeLevels() []float64 {
	levels := make([]float64, 0, len(sizeMagnitudes)*len(sizeSigns))
	for _, magnitude := range sizeMagnitudes {
		for _, sign := range sizeSigns {
			levels = append(levels, magnitude*sign)
		}
	}
	return levels
}
