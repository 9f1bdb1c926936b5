// Package units provides shared constants and validation for angle units
package units

import "math"

// Unit constants
const (
	Radians = "radians"
	Rad     = "rad"
	Degrees = "degrees"
	Deg     = "deg"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Radians, Rad, Degrees, Deg}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "radians, rad, degrees, deg"
}

// ToRadians converts an angle from the given units to radians
// The scene description format stores the field of view in radians
func ToRadians(value float64, fromUnits string) float64 {
	switch fromUnits {
	case Degrees, Deg:
		return value * math.Pi / 180
	case Radians, Rad:
		return value // no conversion needed
	default:
		return value // default to radians if unknown unit
	}
}

// ToDegrees converts an angle from radians to degrees
func ToDegrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

// FocalLengthPx returns the focal length in pixels implied by a horizontal
// field of view spanning an image of the given pixel width.
func FocalLengthPx(fovRadians float64, widthPx int) float64 {
	return 0.5 * float64(widthPx) / math.Tan(0.5*fovRadians)
}
