package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/bpo-report/pkg/optimization"
)

func validValidator() ConfigValidator {
	return ConfigValidator{
		Report:       ReportSettings{ImplementationCost: 250000, TopN: 3, PhaseWeeks: 4, TableSize: 13},
		Output:       OutputSettings{Format: "pretty"},
		Store:        StoreSettings{Driver: "memory"},
		BusinessCase: optimization.Input{MonthlyCost: 2000000, AgentCount: 50, CallsPerMonth: 12000},
		AuthToken:    "secret",
	}
}

func TestValidateReportSettings(t *testing.T) {
	tests := []struct {
		name          string
		settings      ReportSettings
		expectedCount int
		contains      string
	}{
		{
			name:          "All valid",
			settings:      ReportSettings{ImplementationCost: 250000, TopN: 3, PhaseWeeks: 4, TableSize: 13},
			expectedCount: 0,
		},
		{
			name:          "Zero implementation cost",
			settings:      ReportSettings{ImplementationCost: 0, TopN: 3, PhaseWeeks: 4, TableSize: 13},
			expectedCount: 1,
			contains:      "implementationCost",
		},
		{
			name:          "TopN exceeds table",
			settings:      ReportSettings{ImplementationCost: 1, TopN: 20, PhaseWeeks: 4, TableSize: 13},
			expectedCount: 1,
			contains:      "clamped",
		},
		{
			name:          "Everything defaulted",
			settings:      ReportSettings{},
			expectedCount: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ValidateReportSettings(tt.settings)
			if len(warnings) != tt.expectedCount {
				t.Fatalf("expected %d warnings, got %d: %v", tt.expectedCount, len(warnings), warnings)
			}
			if tt.contains != "" && !strings.Contains(warnings[0], tt.contains) {
				t.Errorf("warning %q should contain %q", warnings[0], tt.contains)
			}
		})
	}
}

func TestValidateJitter(t *testing.T) {
	tests := []struct {
		name       string
		amplitude  float64
		expectErr  bool
		expectWarn bool
	}{
		{"Disabled", 0, false, false},
		{"Small amplitude", 0.05, false, true},
		{"Negative", -0.1, true, false},
		{"Full amplitude", 1, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning, err := ValidateJitter(tt.amplitude)
			if (err != nil) != tt.expectErr {
				t.Fatalf("ValidateJitter(%v) error = %v, expectErr %v", tt.amplitude, err, tt.expectErr)
			}
			if (warning != "") != tt.expectWarn {
				t.Errorf("ValidateJitter(%v) warning = %q, expectWarn %v", tt.amplitude, warning, tt.expectWarn)
			}
		})
	}
}

func TestValidateStore(t *testing.T) {
	tests := []struct {
		name      string
		settings  StoreSettings
		expectErr bool
	}{
		{"Empty driver", StoreSettings{}, false},
		{"Memory", StoreSettings{Driver: "memory"}, false},
		{"SQLite without DSN", StoreSettings{Driver: "sqlite"}, false},
		{"Postgres with DSN", StoreSettings{Driver: "postgres", DSN: "postgres://localhost/bpo"}, false},
		{"Postgres without DSN", StoreSettings{Driver: "postgres"}, true},
		{"Unknown driver", StoreSettings{Driver: "mysql"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStore(tt.settings)
			if (err != nil) != tt.expectErr {
				t.Errorf("ValidateStore(%+v) error = %v, expectErr %v", tt.settings, err, tt.expectErr)
			}
		})
	}
}

func TestConfigValidator_ValidateAll(t *testing.T) {
	cv := validValidator()
	warnings, err := cv.ValidateAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestConfigValidator_MissingAuthTokenWarns(t *testing.T) {
	cv := validValidator()
	cv.AuthToken = ""

	warnings, err := cv.ValidateAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "authToken") {
		t.Errorf("expected a single authToken warning, got %v", warnings)
	}
}

func TestConfigValidator_CollectsErrors(t *testing.T) {
	cv := validValidator()
	cv.Output.Format = "xml"
	cv.Output.JitterAmplitude = 2
	cv.Store.Driver = "mysql"
	cv.BusinessCase.MonthlyCost = 0

	_, err := cv.ValidateAll()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, fragment := range []string{"output.format", "amplitude", "mysql", "businessCase"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error should mention %q: %v", fragment, err)
		}
	}
	if !errors.Is(err, optimization.ErrInvalidInput) {
		t.Errorf("expected joined error to wrap ErrInvalidInput")
	}
}
