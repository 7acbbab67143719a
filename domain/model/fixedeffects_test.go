package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psepower/domain/core"
)

func validCoefficients() map[Term]float64 {
	return map[Term]float64{
		TermIntercept:         0.25,
		TermColor:             -0.1,
		TermContrast:          0.3,
		TermSize:              0.9,
		TermColorContrast:     0.05,
		TermColorSize:         -0.2,
		TermContrastSize:      0.15,
		TermColorContrastSize: 0.01,
		TermSubjectSD:         0.4,
	}
}

func TestNewFixedEffectSet_Valid(t *testing.T) {
	coefficients := validCoefficients()
	fixef, err := NewFixedEffectSet(coefficients)
	require.NoError(t, err)

	assert.Equal(t, 0.25, fixef.Intercept)
	assert.Equal(t, 0.9, fixef.Size)
	assert.Equal(t, 0.4, fixef.SubjectSD)
	assert.Equal(t, coefficients, fixef.Coefficients())
}

func TestNewFixedEffectSet_MissingTerm(t *testing.T) {
	coefficients := validCoefficients()
	delete(coefficients, TermColorSize)

	_, err := NewFixedEffectSet(coefficients)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMissingTerm))
	assert.True(t, core.IsConfigurationError(err))
}

func TestNewFixedEffectSet_UnknownTerm(t *testing.T) {
	coefficients := validCoefficients()
	coefficients[Term("color_e:trial")] = 1.0

	_, err := NewFixedEffectSet(coefficients)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnknownTerm))
}

func TestNewFixedEffectSet_NonFiniteEstimate(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		coefficients := validCoefficients()
		coefficients[TermSize] = bad

		_, err := NewFixedEffectSet(coefficients)
		require.Error(t, err, "estimate %v", bad)
		assert.True(t, errors.Is(err, core.ErrInvalidParameter))
	}
}

func TestNewFixedEffectSet_NegativeSubjectSD(t *testing.T) {
	coefficients := validCoefficients()
	coefficients[TermSubjectSD] = -0.1

	_, err := NewFixedEffectSet(coefficients)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidParameter))
}
