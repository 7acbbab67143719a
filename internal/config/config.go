package config

import (
	"os"
	"strconv"

	"psepower/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Simulation SimulationConfig
	Paths      PathConfig
}

// SimulationConfig holds power-simulation parameters
type SimulationConfig struct {
	SubjectN           int
	TrialN             int
	ExcludedProportion float64
	Replications       int
	Seed               int64
	Workers            int     // 0 = one per CPU
	FThreshold         float64 // Cohen's f cutoff for the achieved-power figure
}

// PathConfig holds input/output file paths
type PathConfig struct {
	CoefficientsFile string
	PilotFile        string
	OutputFile       string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Simulation: SimulationConfig{
			SubjectN:           getEnvIntOrDefault("PSE_SUBJECTS", 10),
			TrialN:             getEnvIntOrDefault("PSE_TRIALS", 24),
			ExcludedProportion: getEnvFloatOrDefault("PSE_EXCLUDED_PROPORTION", 0),
			Replications:       getEnvIntOrDefault("PSE_REPLICATIONS", 100),
			Seed:               getEnvInt64OrDefault("PSE_SEED", 42),
			Workers:            getEnvIntOrDefault("PSE_WORKERS", 0),
			FThreshold:         getEnvFloatOrDefault("POWER_F_THRESHOLD", 0.25),
		},
		Paths: PathConfig{
			CoefficientsFile: getEnvOrDefault("PSE_COEFFICIENTS_FILE", ""),
			PilotFile:        getEnvOrDefault("PSE_PILOT_FILE", ""),
			OutputFile:       getEnvOrDefault("PSE_OUTPUT_FILE", ""),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	sim := config.Simulation
	if sim.SubjectN <= 0 {
		return errors.ConfigInvalid("PSE_SUBJECTS must be > 0")
	}
	if sim.TrialN <= 0 {
		return errors.ConfigInvalid("PSE_TRIALS must be > 0")
	}
	if sim.Replications <= 0 {
		return errors.ConfigInvalid("PSE_REPLICATIONS must be > 0")
	}
	if sim.ExcludedProportion < 0 || sim.ExcludedProportion > 1 {
		return errors.ConfigInvalid("PSE_EXCLUDED_PROPORTION must be in [0, 1]")
	}
	if sim.Workers < 0 {
		return errors.ConfigInvalid("PSE_WORKERS must be >= 0")
	}
	if sim.FThreshold <= 0 {
		return errors.ConfigInvalid("POWER_F_THRESHOLD must be > 0")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
