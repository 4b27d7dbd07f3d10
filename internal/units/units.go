// Package units provides shared constants and conversions for angle and
// length units
package units

import "math"

// Angle unit constants
const (
	Degrees = "deg"
	Radians = "rad"
)

// Length unit constants
const (
	Meters = "m"
	Feet   = "ft"
)

// ValidAngleUnits contains all valid angle unit values
var ValidAngleUnits = []string{Degrees, Radians}

// ValidLengthUnits contains all valid length unit values
var ValidLengthUnits = []string{Meters, Feet}

const metersPerFoot = 0.3048

// IsValidAngle checks if the given unit is a known angle unit
func IsValidAngle(unit string) bool {
	for _, u := range ValidAngleUnits {
		if unit == u {
			return true
		}
	}
	return false
}

// IsValidLength checks if the given unit is a known length unit
func IsValidLength(unit string) bool {
	for _, u := range ValidLengthUnits {
		if unit == u {
			return true
		}
	}
	return false
}

// GetValidAngleUnitsString returns a comma-separated string of valid angle
// units for error messages
func GetValidAngleUnitsString() string {
	return "deg, rad"
}

// GetValidLengthUnitsString returns a comma-separated string of valid length
// units for error messages
func GetValidLengthUnitsString() string {
	return "m, ft"
}

// DegToRad converts an angle in degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts an angle in radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// ConvertAngle converts an angle in degrees to the target units.
func ConvertAngle(deg float64, targetUnits string) float64 {
	switch targetUnits {
	case Radians:
		return DegToRad(deg)
	default:
		return deg
	}
}

// ConvertLength converts a length in meters to the target units.
// Unknown units leave the value in meters.
func ConvertLength(meters float64, targetUnits string) float64 {
	switch targetUnits {
	case Feet:
		return meters / metersPerFoot
	default:
		return meters
	}
}
