package model

import (
	"fmt"
	"math"

	"psepower/domain/core"
)

// Logistic is the inverse-logit link: 1 / (1 + exp(-y)).
// It maps any real linear predictor to a probability in (0, 1).
func Logistic(y float64) float64 {
	return 1 / (1 + math.Exp(-y))
}

// Logit is the log-odds link: log(p / (1 - p)). It is the exact inverse of
// Logistic on the open interval (0, 1) and undefined at the endpoints, which
// are reported as a numeric domain error rather than returned as +/-Inf.
func Logit(p float64) (float64, error) {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return 0, fmt.Errorf("%w: logit requires p in (0, 1), got %v", core.ErrNumericDomain, p)
	}
	return math.Log(p / (1 - p)), nil
}
