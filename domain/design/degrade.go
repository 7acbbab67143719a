package design

import (
	"math"
	"math/rand"

	"psepower/domain/core"
)

// Degrader injects missing responses at a fixed proportion, modeling the
// trial exclusions applied to real data. Selection is uniform over rows and
// independent of covariate values (missing completely at random).
type Degrader struct {
	proportion float64
}

// NewDegrader creates a degrader for the given exclusion proportion.
// The proportion must lie in [0, 1].
func NewDegrader(proportion float64) (*Degrader, error) {
	if math.IsNaN(proportion) || proportion < 0 || proportion > 1 {
		return nil, core.NewParameterError("excluded_proportion", "must be in [0, 1]")
	}
	return &Degrader{proportion: proportion}, nil
}

// Proportion returns the configured exclusion proportion
func (d *Degrader) Proportion() float64 { return d.proportion }

// Apply marks round(proportion * len(records)) responses missing, selected
// uniformly without replacement. Covariates are untouched. Returns the
// number of responses masked. A proportion of 0 is a no-op; 1 masks every
// response.
func (d *Degrader) Apply(records []TrialRecord, rng *rand.Rand) int {
	n := len(records)
	k := int(math.Round(d.proportion * float64(n)))
	if k <= 0 {
		return 0
	}
	if k > n {
		k = n
	}

	// Partial Fisher-Yates over an index permutation: the first k slots
	// are a uniform sample without replacement.
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		indices[i], indices[j] = indices[j], indices[i]
	}
	for _, idx := range indices[:k] {
		records[idx].Response = ResponseMissing
	}

	return k
}
