package report

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/iwvelando/bpo-report/pkg/optimization"
)

// ruleCostLimit bounds the evaluation cost of a single rule.
const ruleCostLimit = 100000

// Rule is a named CEL boolean expression evaluated once per theorem result.
// Available variables: theorem_id, savings_amount, efficiency_gain,
// monthly_cost, agent_count, calls_per_month.
type Rule struct {
	Name       string `mapstructure:"name" yaml:"name" json:"name"`
	Expression string `mapstructure:"expression" yaml:"expression" json:"expression"`
}

// DefaultRules returns the high-impact and efficiency rules.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "High-impact theorems", Expression: "savings_amount > 100000.0"},
		{Name: "Efficiency theorems", Expression: "efficiency_gain > 0.2"},
	}
}

type compiledRule struct {
	Rule
	program cel.Program
}

func newRuleEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("theorem_id", cel.IntType),
		cel.Variable("savings_amount", cel.DoubleType),
		cel.Variable("efficiency_gain", cel.DoubleType),
		cel.Variable("monthly_cost", cel.DoubleType),
		cel.Variable("agent_count", cel.IntType),
		cel.Variable("calls_per_month", cel.IntType),
		cel.CrossTypeNumericComparisons(true),
	)
}

// ValidateRules compiles the rules without keeping the programs.
func ValidateRules(rules []Rule) error {
	_, err := compileRules(rules)
	return err
}

func compileRules(rules []Rule) ([]compiledRule, error) {
	if len(rules) == 0 {
		return nil, nil
	}

	env, err := newRuleEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	compiled := make([]compiledRule, 0, len(rules))
	for i, rule := range rules {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return nil, fmt.Errorf("recommendation rule %d: name cannot be empty", i)
		}
		if name == roadmapRule {
			return nil, fmt.Errorf("recommendation rule %d: name %q is reserved for roadmap phases", i, name)
		}
		expr := strings.TrimSpace(rule.Expression)
		if expr == "" {
			return nil, fmt.Errorf("recommendation rule %q: expression cannot be empty", name)
		}

		ast, issues := env.Compile(expr)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("recommendation rule %q: compile error: %w", name, issues.Err())
		}
		program, err := env.Program(ast, cel.CostLimit(ruleCostLimit))
		if err != nil {
			return nil, fmt.Errorf("recommendation rule %q: program creation error: %w", name, err)
		}
		compiled = append(compiled, compiledRule{Rule: Rule{Name: name, Expression: expr}, program: program})
	}
	return compiled, nil
}

// match reports whether the rule holds for one result. Non-boolean outcomes
// count as no match.
func (c compiledRule) match(in optimization.Input, r optimization.Result) (bool, error) {
	out, _, err := c.program.Eval(map[string]any{
		"theorem_id":      int64(r.TheoremID),
		"savings_amount":  r.SavingsAmount,
		"efficiency_gain": r.EfficiencyGain,
		"monthly_cost":    in.MonthlyCost,
		"agent_count":     int64(in.AgentCount),
		"calls_per_month": int64(in.CallsPerMonth),
	})
	if err != nil {
		return false, err
	}
	matched, ok := out.Value().(bool)
	return ok && matched, nil
}
