package testutil

import (
	"testing"

	"github.com/iwvelando/bpo-report/pkg/optimization"
)

func sampleResults() []optimization.Result {
	return []optimization.Result{
		{TheoremID: 1, Name: "Shor Factorization Theorem", SavingsAmount: 250000, EfficiencyGain: 0.25},
		{TheoremID: 4, Name: "Central Limit Theorem", SavingsAmount: 920000, EfficiencyGain: 0.92},
		{TheoremID: 11, Name: "Bayes", SavingsAmount: 950000, EfficiencyGain: 0.95},
	}
}

func TestFindResult(t *testing.T) {
	results := sampleResults()

	tests := []struct {
		name        string
		id          int
		expectFound bool
		expected    float64
	}{
		{"Find first", 1, true, 250000},
		{"Find middle", 4, true, 920000},
		{"Find last", 11, true, 950000},
		{"Missing id", 2, false, 0},
		{"Zero id", 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindResult(results, tt.id)
			if !tt.expectFound {
				if result != nil {
					t.Errorf("FindResult() expected nil for id %d, got %+v", tt.id, result)
				}
				return
			}
			if result == nil {
				t.Fatalf("FindResult() expected to find id %d but got nil", tt.id)
			}
			if result.SavingsAmount != tt.expected {
				t.Errorf("FindResult() savings = %v, expected %v", result.SavingsAmount, tt.expected)
			}
		})
	}
}

func TestFindResultReturnsPointer(t *testing.T) {
	results := sampleResults()

	found := FindResult(results, 4)
	if found != &results[1] {
		t.Fatalf("FindResult() should return pointer to original element")
	}

	found.SavingsAmount = 1
	if results[1].SavingsAmount != 1 {
		t.Errorf("Modifying through returned pointer should modify original")
	}
}

func TestFindResultNilResults(t *testing.T) {
	if result := FindResult(nil, 1); result != nil {
		t.Errorf("FindResult() with nil results should return nil, got %v", result)
	}
}

func TestCheckSummaryAcceptsConsistentSummary(t *testing.T) {
	results := sampleResults()
	s := optimization.Summary{
		Results:       results,
		TotalSavings:  2120000,
		AnnualSavings: 25440000,
		TopResults:    []optimization.Result{results[2], results[1]},
		Roadmap: []optimization.Phase{
			{Phase: 1, TheoremID: 11},
			{Phase: 2, TheoremID: 4},
		},
	}

	CheckSummary(t, s)
}
