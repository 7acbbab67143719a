package estimator

import (
	"math"

	"psepower/domain/core"
	"psepower/domain/model"
)

const (
	maxIterations  = 50
	convergenceTol = 1e-10

	// minSlope rejects fits whose slope cannot support a finite PSE
	minSlope = 1e-8

	// maxCoefficient bounds the Newton iteration; estimates running past
	// this indicate complete separation rather than a usable fit
	maxCoefficient = 1e6
)

// LogisticFit is the result of a two-parameter logistic regression of a
// binary response on a single predictor.
type LogisticFit struct {
	Intercept  float64
	Slope      float64
	Iterations int
}

// FitLogistic fits response ~ predictor by Newton-Raphson on the binomial
// log-likelihood. Responses must be 0/1 with missing values already
// filtered. Degenerate inputs (fewer than two distinct response values,
// singular information matrix, separation, failure to converge) return
// ErrDegenerateFit so callers can exclude the group instead of consuming a
// meaningless estimate.
func FitLogistic(x, y []float64) (LogisticFit, error) {
	if len(x) != len(y) {
		return LogisticFit{}, core.NewParameterError("predictor/response", "length mismatch")
	}
	if len(y) < 2 {
		return LogisticFit{}, core.NewDegenerateFitError("fewer than 2 observations")
	}

	sawZero, sawOne := false, false
	for _, v := range y {
		switch v {
		case 0:
			sawZero = true
		case 1:
			sawOne = true
		default:
			return LogisticFit{}, core.NewParameterError("response", "must be 0 or 1")
		}
	}
	if !sawZero || !sawOne {
		return LogisticFit{}, core.NewDegenerateFitError("single response level, fit cannot converge")
	}

	b0, b1 := 0.0, 0.0
	for iter := 1; iter <= maxIterations; iter++ {
		// Score vector and 2x2 observed information
		var g0, g1 float64
		var h00, h01, h11 float64
		for i := range x {
			p := model.Logistic(b0 + b1*x[i])
			w := p * (1 - p)
			r := y[i] - p
			g0 += r
			g1 += r * x[i]
			h00 += w
			h01 += w * x[i]
			h11 += w * x[i] * x[i]
		}

		det := h00*h11 - h01*h01
		if det <= 0 || math.IsNaN(det) {
			return LogisticFit{}, core.NewDegenerateFitError("singular information matrix")
		}

		d0 := (h11*g0 - h01*g1) / det
		d1 := (h00*g1 - h01*g0) / det
		b0 += d0
		b1 += d1

		if math.IsNaN(b0) || math.IsNaN(b1) ||
			math.Abs(b0) > maxCoefficient || math.Abs(b1) > maxCoefficient {
			return LogisticFit{}, core.NewDegenerateFitError("estimates diverged (separation)")
		}

		if math.Abs(d0) < convergenceTol && math.Abs(d1) < convergenceTol {
			return LogisticFit{Intercept: b0, Slope: b1, Iterations: iter}, nil
		}
	}

	return LogisticFit{}, core.NewDegenerateFitError("no convergence within iteration limit")
}
