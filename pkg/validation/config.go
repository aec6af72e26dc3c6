// Package validation provides configuration validation utilities.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/bpo-report/pkg/constants"
	"github.com/iwvelando/bpo-report/pkg/optimization"
)

// ReportSettings mirrors the report section of the configuration.
type ReportSettings struct {
	ImplementationCost float64
	TopN               int
	PhaseWeeks         int
	TableSize          int
}

// OutputSettings mirrors the output section of the configuration.
type OutputSettings struct {
	Format          string
	JitterAmplitude float64
}

// StoreSettings mirrors the store section of the configuration.
type StoreSettings struct {
	Driver string
	DSN    string
}

// ValidateReportSettings returns warnings for settings that will be replaced
// by defaults or clamped.
func ValidateReportSettings(r ReportSettings) []string {
	var warnings []string

	if r.ImplementationCost <= 0 {
		warnings = append(warnings, fmt.Sprintf("report.implementationCost %.2f is not positive, using default %.2f",
			r.ImplementationCost, constants.DefaultImplementationCost))
	}
	if r.TopN <= 0 {
		warnings = append(warnings, fmt.Sprintf("report.topN %d is not positive, using default %d", r.TopN, constants.DefaultTopN))
	} else if r.TableSize > 0 && r.TopN > r.TableSize {
		warnings = append(warnings, fmt.Sprintf("report.topN %d exceeds the %d available theorems and will be clamped", r.TopN, r.TableSize))
	}
	if r.PhaseWeeks <= 0 {
		warnings = append(warnings, fmt.Sprintf("report.phaseWeeks %d is not positive, using default %d", r.PhaseWeeks, constants.DefaultPhaseWeeks))
	}

	return warnings
}

// ValidateJitter rejects amplitudes outside [0, 1) and warns when jitter is on.
func ValidateJitter(amplitude float64) (string, error) {
	if amplitude < 0 || amplitude >= 1 {
		return "", fmt.Errorf("output.jitter.amplitude must be in [0, 1), got %v", amplitude)
	}
	if amplitude > 0 {
		return fmt.Sprintf("output jitter is enabled (amplitude %.2f); displayed savings will differ from the evaluated figures", amplitude), nil
	}
	return "", nil
}

// ValidateStore checks the archive driver and its connection string.
func ValidateStore(s StoreSettings) error {
	switch strings.ToLower(s.Driver) {
	case "", constants.StoreDriverMemory, constants.StoreDriverSQLite:
		return nil
	case constants.StoreDriverPostgres:
		if strings.TrimSpace(s.DSN) == "" {
			return fmt.Errorf("store.dsn is required for the %s driver", constants.StoreDriverPostgres)
		}
		return nil
	default:
		return fmt.Errorf("unsupported store.driver %q, expected %s, %s or %s", s.Driver,
			constants.StoreDriverMemory, constants.StoreDriverSQLite, constants.StoreDriverPostgres)
	}
}

// ConfigValidator performs comprehensive configuration validation.
type ConfigValidator struct {
	Report       ReportSettings
	Output       OutputSettings
	Store        StoreSettings
	BusinessCase optimization.Input
	AuthToken    string
}

// ValidateAll validates the entire configuration. Problems that prevent
// startup are joined into the error; everything else is returned as warnings.
func (cv *ConfigValidator) ValidateAll() ([]string, error) {
	var (
		warnings []string
		errs     []error
	)

	warnings = append(warnings, ValidateReportSettings(cv.Report)...)

	if cv.Output.Format != "" {
		if err := ValidateOutputFormat(cv.Output.Format); err != nil {
			errs = append(errs, fmt.Errorf("output.format: %w", err))
		}
	}

	warning, err := ValidateJitter(cv.Output.JitterAmplitude)
	if err != nil {
		errs = append(errs, err)
	} else if warning != "" {
		warnings = append(warnings, warning)
	}

	if err := ValidateStore(cv.Store); err != nil {
		errs = append(errs, err)
	}

	if err := cv.BusinessCase.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("businessCase: %w", err))
	}

	if strings.TrimSpace(cv.AuthToken) == "" {
		warnings = append(warnings, "server.authToken is empty; archived report endpoints are unauthenticated")
	}

	return warnings, errors.Join(errs...)
}
