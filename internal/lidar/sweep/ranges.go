package sweep

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxValues caps the number of values a single range may generate.
const maxValues = 10000

// Generated values are rounded to rangePrecision decimals, so a step must be
// at least minStep for consecutive values to stay distinct.
const (
	rangePrecision = 1000
	minStep        = 1.0 / rangePrecision
)

// RangeSpec defines a floating-point parameter range for sweeping.
type RangeSpec struct {
	Min  float64
	Max  float64
	Step float64
}

// ParseRangeSpec parses a "min:max:step" string into a RangeSpec.
// Returns an error if the format is invalid or values cannot be parsed.
func ParseRangeSpec(s string) (RangeSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return RangeSpec{}, fmt.Errorf("invalid range format %q: expected min:max:step", s)
	}

	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return RangeSpec{}, fmt.Errorf("invalid min value %q: %w", parts[0], err)
	}

	max, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return RangeSpec{}, fmt.Errorf("invalid max value %q: %w", parts[1], err)
	}

	step, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return RangeSpec{}, fmt.Errorf("invalid step value %q: %w", parts[2], err)
	}

	if step <= 0 {
		return RangeSpec{}, fmt.Errorf("step must be positive, got %f", step)
	}
	if step < minStep {
		return RangeSpec{}, fmt.Errorf("step %g is finer than the supported resolution %g", step, minStep)
	}
	if min > max {
		return RangeSpec{}, fmt.Errorf("min %g greater than max %g", min, max)
	}
	if (max-min)/step+1 > maxValues {
		return RangeSpec{}, fmt.Errorf("range %q would generate more than %d values", s, maxValues)
	}

	return RangeSpec{Min: min, Max: max, Step: step}, nil
}

// Values expands the spec with GenerateRange.
func (r RangeSpec) Values() []float64 {
	return GenerateRange(r.Min, r.Max, r.Step)
}

// GenerateRange generates a slice of float64 values from min to max (inclusive)
// stepping by step. Values are rounded to three decimals. Returns nil if
// min > max, step is below minStep or the range would exceed maxValues.
func GenerateRange(min, max, step float64) []float64 {
	if !(step >= minStep) || min > max {
		return nil
	}

	expectedCount := int((max-min)/step) + 1
	if expectedCount > maxValues || expectedCount < 0 {
		return nil
	}

	result := make([]float64, 0, expectedCount)
	for i := 0; len(result) < maxValues; i++ {
		// Multiplying instead of accumulating keeps the error from growing.
		v := math.Round((min+float64(i)*step)*rangePrecision) / rangePrecision
		if v > max+step/1000 {
			break
		}
		if v <= max {
			result = append(result, v)
		}
	}
	return result
}

// ParseParamList parses a comma-separated list of floats or a range specification.
// If the string contains a colon, it is treated as "min:max:step" range spec.
// Otherwise, it is parsed as comma-separated values.
func ParseParamList(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}

	if strings.Contains(s, ":") {
		spec, err := ParseRangeSpec(s)
		if err != nil {
			return nil, err
		}
		return spec.Values(), nil
	}

	return ParseCSVFloat64s(s)
}
