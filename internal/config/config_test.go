package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "psepower/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Simulation.SubjectN)
	assert.Equal(t, 24, cfg.Simulation.TrialN)
	assert.Equal(t, 100, cfg.Simulation.Replications)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Equal(t, 0, cfg.Simulation.Workers)
	assert.Equal(t, 0.0, cfg.Simulation.ExcludedProportion)
	assert.Equal(t, 0.25, cfg.Simulation.FThreshold)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PSE_SUBJECTS", "18")
	t.Setenv("PSE_TRIALS", "12")
	t.Setenv("PSE_REPLICATIONS", "500")
	t.Setenv("PSE_SEED", "987654321")
	t.Setenv("PSE_EXCLUDED_PROPORTION", "0.08")
	t.Setenv("POWER_F_THRESHOLD", "0.4")
	t.Setenv("PSE_COEFFICIENTS_FILE", "/data/coefficients.csv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 18, cfg.Simulation.SubjectN)
	assert.Equal(t, 12, cfg.Simulation.TrialN)
	assert.Equal(t, 500, cfg.Simulation.Replications)
	assert.Equal(t, int64(987654321), cfg.Simulation.Seed)
	assert.Equal(t, 0.08, cfg.Simulation.ExcludedProportion)
	assert.Equal(t, 0.4, cfg.Simulation.FThreshold)
	assert.Equal(t, "/data/coefficients.csv", cfg.Paths.CoefficientsFile)
}

func TestLoad_MalformedValueFallsBackToDefault(t *testing.T) {
	t.Setenv("PSE_REPLICATIONS", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Simulation.Replications)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"zero subjects", "PSE_SUBJECTS", "0"},
		{"negative trials", "PSE_TRIALS", "-3"},
		{"zero replications", "PSE_REPLICATIONS", "0"},
		{"proportion above one", "PSE_EXCLUDED_PROPORTION", "1.5"},
		{"negative workers", "PSE_WORKERS", "-2"},
		{"zero threshold", "POWER_F_THRESHOLD", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
		})
	}
}
