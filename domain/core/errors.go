package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors (fatal, refuse the run)
	ErrInvalidParameter = errors.New("invalid simulation parameter")
	ErrMissingTerm      = errors.New("fixed-effect term missing")
	ErrUnknownTerm      = errors.New("unknown fixed-effect term")

	// Numeric domain errors (fatal within a computation)
	ErrNumericDomain = errors.New("argument outside numeric domain")

	// Estimation errors (non-fatal, recorded and excluded)
	ErrDegenerateFit    = errors.New("degenerate logistic fit")
	ErrIncompleteDesign = errors.New("incomplete design after exclusions")
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// Error constructors with context
func NewParameterError(name string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParameter, name, reason)
}

func NewMissingTermError(term string) error {
	return fmt.Errorf("%w: %q", ErrMissingTerm, term)
}

func NewUnknownTermError(term string) error {
	return fmt.Errorf("%w: %q", ErrUnknownTerm, term)
}

func NewDegenerateFitError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDegenerateFit, reason)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrMissingTerm) ||
		errors.Is(err, ErrUnknownTerm)
}

func IsDegenerateFitError(err error) bool {
	return errors.Is(err, ErrDegenerateFit)
}

func IsNumericDomainError(err error) bool {
	return errors.Is(err, ErrNumericDomain)
}
