package units

import (
	"math"
	"testing"
)

func TestToRadians(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		units    string
		expected float64
	}{
		{"180 degrees to radians", 180.0, Degrees, math.Pi},
		{"90 deg to radians", 90.0, Deg, math.Pi / 2},
		{"45.84 degrees to radians", 45.83662, Degrees, 0.8}, // default scene FOV
		{"radians pass through", 0.8, Radians, 0.8},
		{"rad passes through", 1.5, Rad, 1.5},
		{"unknown units default to radians", 0.8, "unknown", 0.8},
		{"zero", 0.0, Degrees, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToRadians(tt.value, tt.units)
			if math.Abs(result-tt.expected) > 0.0001 {
				t.Errorf("ToRadians(%f, %s) = %f, want %f", tt.value, tt.units, result, tt.expected)
			}
		})
	}
}

func TestToDegrees(t *testing.T) {
	tests := []struct {
		name     string
		radians  float64
		expected float64
	}{
		{"pi to 180", math.Pi, 180.0},
		{"half pi to 90", math.Pi / 2, 90.0},
		{"0.8 rad", 0.8, 45.83662},
		{"zero", 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToDegrees(tt.radians)
			if math.Abs(result-tt.expected) > 0.0001 {
				t.Errorf("ToDegrees(%f) = %f, want %f", tt.radians, result, tt.expected)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, angle := range []float64{0.1, 0.8, 1.0, math.Pi / 2} {
		got := ToRadians(ToDegrees(angle), Degrees)
		if math.Abs(got-angle) > 1e-12 {
			t.Errorf("round trip of %f produced %f", angle, got)
		}
	}
}

func TestFocalLengthPx(t *testing.T) {
	tests := []struct {
		name     string
		fov      float64
		widthPx  int
		expected float64
	}{
		// 0.8 rad across 640 px: 320 / tan(0.4)
		{"default capture geometry", 0.8, 640, 756.8712},
		{"90 degree lens", math.Pi / 2, 640, 320.0},
		{"narrow lens", 0.2, 1920, 9567.9786},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FocalLengthPx(tt.fov, tt.widthPx)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("FocalLengthPx(%f, %d) = %f, want %f", tt.fov, tt.widthPx, result, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid radians", Radians, true},
		{"valid rad", Rad, true},
		{"valid degrees", Degrees, true},
		{"valid deg", Deg, true},
		{"invalid unit", "invalid", false},
		{"empty string", "", false},
		{"case sensitive", "Degrees", false},
		{"case sensitive", "RAD", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValid(tt.unit)
			if result != tt.expected {
				t.Errorf("IsValid(%s) = %v, want %v", tt.unit, result, tt.expected)
			}
		})
	}
}

func TestGetValidUnitsString(t *testing.T) {
	expected := "radians, rad, degrees, deg"
	result := GetValidUnitsString()
	if result != expected {
		t.Errorf("GetValidUnitsString() = %s, want %s", result, expected)
	}
}
