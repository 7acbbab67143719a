package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorHelpers(t *testing.T) {
	cases := []struct {
		name          string
		err           error
		configuration bool
		degenerate    bool
		numeric       bool
	}{
		{"parameter", NewParameterError("subj_n", "must be > 0"), true, false, false},
		{"missing term", NewMissingTermError("size"), true, false, false},
		{"unknown term", NewUnknownTermError("color_e:trial"), true, false, false},
		{"degenerate fit", NewDegenerateFitError("single response level"), false, true, false},
		{"numeric domain", fmt.Errorf("%w: logit of 0", ErrNumericDomain), false, false, true},
		{"unrelated", errors.New("disk full"), false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsConfigurationError(tc.err); got != tc.configuration {
				t.Errorf("IsConfigurationError = %v, want %v", got, tc.configuration)
			}
			if got := IsDegenerateFitError(tc.err); got != tc.degenerate {
				t.Errorf("IsDegenerateFitError = %v, want %v", got, tc.degenerate)
			}
			if got := IsNumericDomainError(tc.err); got != tc.numeric {
				t.Errorf("IsNumericDomainError = %v, want %v", got, tc.numeric)
			}
		})
	}
}

// Wrapped errors keep their sentinel through further wrapping
func TestErrorWrappingPreservesSentinel(t *testing.T) {
	inner := NewDegenerateFitError("no convergence within iteration limit")
	outer := fmt.Errorf("group subj_003/color/positive: %w", inner)
	if !errors.Is(outer, ErrDegenerateFit) {
		t.Fatal("sentinel lost through wrapping")
	}
}
