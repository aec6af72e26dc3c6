// Package optimization provides shared data structures for optimization results.
package optimization

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/bpo-report/pkg/constants"
	"github.com/iwvelando/bpo-report/pkg/mathutil"
)

// ErrInvalidInput marks a request whose parameters violate a precondition.
var ErrInvalidInput = errors.New("invalid input")

// Input holds the business parameters of one optimization request.
type Input struct {
	MonthlyCost   float64 `json:"monthly_cost" yaml:"monthly_cost"`
	AgentCount    int     `json:"agent_count" yaml:"agent_count"`
	CallsPerMonth int     `json:"calls_per_month" yaml:"calls_per_month"`
}

// Validate checks that every parameter is strictly positive and finite.
func (in Input) Validate() error {
	if !mathutil.IsFinite(in.MonthlyCost) {
		return fmt.Errorf("%w: monthly_cost must be a finite number", ErrInvalidInput)
	}
	if in.MonthlyCost <= 0 {
		return fmt.Errorf("%w: monthly_cost must be greater than zero, got %v", ErrInvalidInput, in.MonthlyCost)
	}
	if in.AgentCount <= 0 {
		return fmt.Errorf("%w: agent_count must be greater than zero, got %d", ErrInvalidInput, in.AgentCount)
	}
	if in.CallsPerMonth <= 0 {
		return fmt.Errorf("%w: calls_per_month must be greater than zero, got %d", ErrInvalidInput, in.CallsPerMonth)
	}
	return nil
}

// Result captures the outcome of a single theorem evaluation.
type Result struct {
	TheoremID      int     `json:"theorem_id" yaml:"theorem_id"`
	Name           string  `json:"name" yaml:"name"`
	SavingsAmount  float64 `json:"savings_amount" yaml:"savings_amount"`
	EfficiencyGain float64 `json:"efficiency_gain" yaml:"efficiency_gain"`
}

// ROI is the payback estimate in months. An undefined ROI serializes as "N/A".
type ROI struct {
	Defined bool
	Months  float64
}

// MarshalJSON renders the ROI as a number or the N/A sentinel.
func (r ROI) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return json.Marshal(constants.NotAvailable)
	}
	return json.Marshal(r.Months)
}

// UnmarshalJSON accepts either a number or the N/A sentinel.
func (r *ROI) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if s != constants.NotAvailable {
			return fmt.Errorf("unexpected roi value %q", s)
		}
		*r = ROI{}
		return nil
	}
	var months float64
	if err := json.Unmarshal(trimmed, &months); err != nil {
		return err
	}
	*r = ROI{Defined: true, Months: months}
	return nil
}

// MarshalYAML mirrors MarshalJSON for the YAML adapter.
func (r ROI) MarshalYAML() (interface{}, error) {
	if !r.Defined {
		return constants.NotAvailable, nil
	}
	return r.Months, nil
}

// Phase is one step of the implementation roadmap.
type Phase struct {
	Phase           int      `json:"phase" yaml:"phase"`
	Weeks           string   `json:"weeks" yaml:"weeks"`
	Focus           string   `json:"focus" yaml:"focus"`
	TheoremID       int      `json:"theorem_id" yaml:"theorem_id"`
	TheoremName     string   `json:"theorem_name" yaml:"theorem_name"`
	ExpectedSavings float64  `json:"expected_savings" yaml:"expected_savings"`
	Resources       []string `json:"resources" yaml:"resources"`
}

// Recommendation is produced by a matching recommendation rule or roadmap phase.
type Recommendation struct {
	Rule           string  `json:"rule" yaml:"rule"`
	TheoremIDs     []int   `json:"theorem_ids,omitempty" yaml:"theorem_ids,omitempty"`
	MonthlySavings float64 `json:"monthly_savings,omitempty" yaml:"monthly_savings,omitempty"`
	Message        string  `json:"message" yaml:"message"`
}

// RiskAssessment rates the rollout of the roadmap.
type RiskAssessment struct {
	Implementation string `json:"implementation_risk" yaml:"implementation_risk"`
	Financial      string `json:"financial_risk" yaml:"financial_risk"`
	Operational    string `json:"operational_risk" yaml:"operational_risk"`
	Mitigation     string `json:"mitigation_strategy" yaml:"mitigation_strategy"`
}

// Summary is the aggregated report for one Input. It is derived, never stored
// as the source of truth, and identical inputs produce identical summaries.
type Summary struct {
	Input                 Input            `json:"input" yaml:"input"`
	TotalSavings          float64          `json:"total_savings" yaml:"total_savings"`
	AnnualSavings         float64          `json:"annual_savings" yaml:"annual_savings"`
	ImplementationCost    float64          `json:"implementation_cost" yaml:"implementation_cost"`
	ROIEstimate           ROI              `json:"roi_estimate" yaml:"roi_estimate"`
	AverageEfficiencyGain float64          `json:"average_efficiency_gain" yaml:"average_efficiency_gain"`
	TopResults            []Result         `json:"top_results" yaml:"top_results"`
	Results               []Result         `json:"results" yaml:"results"`
	Roadmap               []Phase          `json:"roadmap" yaml:"roadmap"`
	Recommendations       []Recommendation `json:"recommendations" yaml:"recommendations"`
	RiskAssessment        RiskAssessment   `json:"risk_assessment" yaml:"risk_assessment"`
	SuccessMetrics        []string         `json:"success_metrics" yaml:"success_metrics"`
}

// Report wraps a Summary with the identity assigned when it was generated.
type Report struct {
	ID          string    `json:"report_id" yaml:"report_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Summary     Summary   `json:"summary" yaml:"summary"`
}
