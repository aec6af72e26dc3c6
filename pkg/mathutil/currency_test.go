package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Large negative", -12345.678, -12345.68},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Exactly zero", 0.0, true},
		{"Very small positive", 0.001, true},
		{"Very small negative", -0.001, true},
		{"Just above tolerance", 0.02, false},
		{"Exactly tolerance", 0.01, true},
		{"Large negative", -100.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsZero(tt.input); result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Zero", 0, true},
		{"Positive", 1e9, true},
		{"NaN", math.NaN(), false},
		{"Positive infinity", math.Inf(1), false},
		{"Negative infinity", math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsFinite(tt.input); result != tt.expected {
				t.Errorf("IsFinite(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(100.0, 100.005, 0.01) {
		t.Error("expected values within tolerance")
	}
	if WithinTolerance(100.0, 100.5, 0.01) {
		t.Error("expected values outside tolerance")
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{"Empty", nil, 0},
		{"Single", []float64{4}, 4},
		{"Several", []float64{0.15, 0.25, 0.35}, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Mean(tt.input); math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Mean(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 1); got != 1 {
		t.Errorf("Clamp above range = %v, expected 1", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Errorf("Clamp below range = %v, expected 0", got)
	}
	if got := Clamp(0.5, 0, 1); got != 0.5 {
		t.Errorf("Clamp inside range = %v, expected 0.5", got)
	}
}

func TestCalculatePercentage(t *testing.T) {
	if got := CalculatePercentage(25, 200); got != 12.5 {
		t.Errorf("CalculatePercentage(25, 200) = %v, expected 12.5", got)
	}
	if got := CalculatePercentage(25, 0); got != 0 {
		t.Errorf("CalculatePercentage with zero total = %v, expected 0", got)
	}
}
