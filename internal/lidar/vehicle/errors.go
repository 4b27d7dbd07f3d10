package vehicle

import (
	"errors"
	"fmt"
)

// ErrInvalidDimension is returned when a car is built with a length, width
// or height that is not strictly positive.
var ErrInvalidDimension = errors.New("invalid vehicle dimension")

// DimensionError carries the dimensions rejected by NewCar.
type DimensionError struct {
	Length float64
	Width  float64
	Height float64
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%v: positive values expected, got (%g, %g, %g)",
		ErrInvalidDimension, e.Length, e.Width, e.Height)
}

// Unwrap lets errors.Is match ErrInvalidDimension.
func (e *DimensionError) Unwrap() error {
	return ErrInvalidDimension
}
