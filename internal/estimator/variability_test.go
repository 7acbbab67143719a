package estimator

import (
	"math"
	"math/rand"
	"testing"

	"psepower/domain/design"
	"psepower/domain/model"
)

// PSE estimates tighten as the size slope grows: a steeper psychometric
// function pins the crossing point harder against response noise
func TestPSEEstimates_TighterUnderStrongSlope(t *testing.T) {
	spread := func(sizeCoefficient float64, seed int64) float64 {
		generator, err := design.NewGenerator(12, 3)
		if err != nil {
			t.Fatalf("NewGenerator: %v", err)
		}
		fixef := model.FixedEffectSet{Intercept: 0.4, Size: sizeCoefficient}
		simulator := model.NewSimulator(fixef)
		records, _ := simulator.SimulateAll(generator.Generate(), rand.New(rand.NewSource(seed)))

		estimates := NewPSEEstimator().Estimate(records)
		var values []float64
		for _, est := range estimates {
			if est.Valid {
				values = append(values, est.PSE)
			}
		}
		if len(values) < 10 {
			t.Fatalf("slope %v: only %d valid estimates", sizeCoefficient, len(values))
		}

		mean := 0.0
		for _, v := range values {
			mean += v
		}
		mean /= float64(len(values))
		ss := 0.0
		for _, v := range values {
			ss += (v - mean) * (v - mean)
		}
		return math.Sqrt(ss / float64(len(values)-1))
	}

	strong := spread(1.2, 31)
	weak := spread(0.3, 31)
	if strong >= weak {
		t.Fatalf("pse spread under strong slope (%v) not below weak slope (%v)", strong, weak)
	}
}
