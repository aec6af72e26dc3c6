package format

import (
	"testing"

	"github.com/iwvelando/bpo-report/pkg/optimization"
)

func newEnglish(t *testing.T) *Formatter {
	t.Helper()
	f, err := NewFormatter("en", "PHP")
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}
	return f
}

func TestCurrency(t *testing.T) {
	f := newEnglish(t)

	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Zero", 0, "PHP 0.00"},
		{"Small", 12.5, "PHP 12.50"},
		{"Thousands", 1234.56, "PHP 1,234.56"},
		{"Millions", 1234567.891, "PHP 1,234,567.89"},
		{"Negative", -1234.5, "-PHP 1,234.50"},
		{"Negative rounds to zero", -0.001, "PHP 0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Currency(tt.amount); got != tt.expected {
				t.Errorf("Currency(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestWholeCurrency(t *testing.T) {
	f := newEnglish(t)
	if got := f.WholeCurrency(250000); got != "PHP 250,000" {
		t.Errorf("WholeCurrency(250000) = %q", got)
	}
	if got := f.WholeCurrency(3474897.4); got != "PHP 3,474,897" {
		t.Errorf("WholeCurrency(3474897.4) = %q", got)
	}
}

func TestNumericCurrency(t *testing.T) {
	f := newEnglish(t)
	if got := f.NumericCurrency(-1234.56); got != "-1,234.56" {
		t.Errorf("NumericCurrency(-1234.56) = %q", got)
	}
}

func TestPercent(t *testing.T) {
	f := newEnglish(t)
	if got := f.Percent(0.25); got != "25.0%" {
		t.Errorf("Percent(0.25) = %q", got)
	}
	if got := f.Percent(0.925); got != "92.5%" {
		t.Errorf("Percent(0.925) = %q", got)
	}
}

func TestROI(t *testing.T) {
	f := newEnglish(t)
	if got := f.ROI(optimization.ROI{}); got != "N/A" {
		t.Errorf("ROI(undefined) = %q", got)
	}
	if got := f.ROI(optimization.ROI{Defined: true, Months: 0.126}); got != "0.13 months" {
		t.Errorf("ROI(0.126) = %q", got)
	}
}

func TestNewFormatterDefaults(t *testing.T) {
	f, err := NewFormatter("", "")
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}
	if f.Symbol() != "PHP" {
		t.Errorf("expected default symbol PHP, got %q", f.Symbol())
	}
	if f.Locale() != "en-PH" {
		t.Errorf("expected default locale en-PH, got %q", f.Locale())
	}
}

func TestNewFormatterInvalidLocale(t *testing.T) {
	if _, err := NewFormatter("not a locale!", "PHP"); err == nil {
		t.Fatal("expected error for invalid locale")
	}
}
