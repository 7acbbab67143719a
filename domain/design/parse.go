package design

import (
	"fmt"
	"strings"
)

// ParseColor maps a table cell to a color level
func ParseColor(cell string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "color", "1", "true":
		return ColorPresent, nil
	case "no_color", "0", "false":
		return ColorAbsent, nil
	}
	return ColorAbsent, fmt.Errorf("color: unknown level %q", cell)
}

// ParseContrast maps a table cell to a contrast level
func ParseContrast(cell string) (Contrast, error) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case string(ContrastPositive):
		return ContrastPositive, nil
	case string(ContrastNegative):
		return ContrastNegative, nil
	}
	return ContrastNegative, fmt.Errorf("contrast: unknown level %q", cell)
}

// ParseResponse maps a table cell to a response. Empty cells and NA mark
// trials excluded by quality criteria.
func ParseResponse(cell string) (Response, error) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "na", "nan":
		return ResponseMissing, nil
	case "0":
		return ResponseDifferent, nil
	case "1":
		return ResponseSame, nil
	}
	return ResponseMissing, fmt.Errorf("response: unknown value %q", cell)
}
