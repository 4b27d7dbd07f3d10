package sensor

import (
	"errors"
	"fmt"
)

// ErrInvalidSensorParameter is returned when a sensor is configured with a
// range or resolution that is not strictly positive, or with a negative
// field of view.
var ErrInvalidSensorParameter = errors.New("invalid sensor parameter")

// ParameterError carries the configuration rejected by New.
type ParameterError struct {
	Range          float64
	VRes           float64
	HRes           float64
	VerticalView   float64
	HorizontalView float64
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%v: lidar parameters must be positive, got range: %g, vres: %g, hres: %g, vertical_view: %g, horizontal_view: %g",
		ErrInvalidSensorParameter, e.Range, e.VRes, e.HRes, e.VerticalView, e.HorizontalView)
}

// Unwrap lets errors.Is match ErrInvalidSensorParameter.
func (e *ParameterError) Unwrap() error {
	return ErrInvalidSensorParameter
}
