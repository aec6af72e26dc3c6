// Package evaluator applies theorem multipliers to an optimization input.
package evaluator

import (
	"github.com/iwvelando/bpo-report/internal/theorem"
	"github.com/iwvelando/bpo-report/pkg/optimization"
)

// Evaluate computes the saving a single theorem yields for the input.
// The result depends only on its arguments.
func Evaluate(in optimization.Input, entry theorem.Entry) (optimization.Result, error) {
	if err := in.Validate(); err != nil {
		return optimization.Result{}, err
	}
	return evaluate(in, entry), nil
}

// EvaluateAll evaluates every theorem in the table, in ascending id order.
func EvaluateAll(in optimization.Input, table *theorem.Table) ([]optimization.Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	entries := table.All()
	results := make([]optimization.Result, 0, len(entries))
	for _, entry := range entries {
		results = append(results, evaluate(in, entry))
	}
	return results, nil
}

func evaluate(in optimization.Input, entry theorem.Entry) optimization.Result {
	return optimization.Result{
		TheoremID:      entry.ID,
		Name:           entry.Name,
		SavingsAmount:  in.MonthlyCost * entry.Multiplier,
		EfficiencyGain: entry.Multiplier,
	}
}
