// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"testing"

	"github.com/iwvelando/bpo-report/pkg/constants"
	"github.com/iwvelando/bpo-report/pkg/optimization"
)

// FindResult finds a result by theorem id in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindResult(results []optimization.Result, id int) *optimization.Result {
	for i := range results {
		if results[i].TheoremID == id {
			return &results[i]
		}
	}
	return nil
}

// CheckSummary fails the test when the summary's figures disagree with each
// other: totals, annualization, ranking and roadmap.
func CheckSummary(t testing.TB, s optimization.Summary) {
	t.Helper()

	var total float64
	for _, r := range s.Results {
		total += r.SavingsAmount
	}
	if math.Abs(total-s.TotalSavings) > constants.CurrencyTolerance {
		t.Errorf("total savings %.2f does not match sum of results %.2f", s.TotalSavings, total)
	}
	if math.Abs(s.TotalSavings*constants.MonthsPerYear-s.AnnualSavings) > constants.CurrencyTolerance {
		t.Errorf("annual savings %.2f is not 12x total %.2f", s.AnnualSavings, s.TotalSavings)
	}

	for i, top := range s.TopResults {
		r := FindResult(s.Results, top.TheoremID)
		if r == nil {
			t.Errorf("top result %d (theorem %d) not among results", i, top.TheoremID)
			continue
		}
		if i > 0 && top.SavingsAmount > s.TopResults[i-1].SavingsAmount {
			t.Errorf("top results not ordered by savings at position %d", i)
		}
	}

	if len(s.Roadmap) != len(s.TopResults) {
		t.Errorf("roadmap has %d phases, expected %d", len(s.Roadmap), len(s.TopResults))
		return
	}
	for i, phase := range s.Roadmap {
		if phase.Phase != i+1 || phase.TheoremID != s.TopResults[i].TheoremID {
			t.Errorf("roadmap phase %d does not follow top result %d", phase.Phase, i)
		}
	}
}
