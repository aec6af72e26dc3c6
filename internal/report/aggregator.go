// Package report aggregates theorem evaluations into an executive summary.
package report

import (
	"fmt"
	"sort"

	"github.com/iwvelando/bpo-report/internal/evaluator"
	"github.com/iwvelando/bpo-report/internal/theorem"
	"github.com/iwvelando/bpo-report/pkg/constants"
	"github.com/iwvelando/bpo-report/pkg/format"
	"github.com/iwvelando/bpo-report/pkg/mathutil"
	"github.com/iwvelando/bpo-report/pkg/optimization"
	"go.uber.org/zap"
)

const roadmapRule = "roadmap"

// Staffing for each roadmap phase; later phases reuse the last entry.
var phaseResources = [][]string{
	{"Finance Team", "BPO Manager", "Data Analyst"},
	{"Operations Manager", "HR", "Analytics Team"},
	{"All Teams", "Executive Sponsor"},
}

var defaultRiskAssessment = optimization.RiskAssessment{
	Implementation: "Medium",
	Financial:      "Low",
	Operational:    "Medium",
	Mitigation:     "Phased implementation with pilot testing",
}

// Options tune the aggregation. Zero values select the defaults.
type Options struct {
	ImplementationCost float64
	TopN               int
	PhaseWeeks         int
	Rules              []Rule
	Formatter          *format.Formatter
}

// Aggregator turns one Input into a Summary in a single synchronous pass.
// It holds no mutable state and is safe for concurrent use.
type Aggregator struct {
	logger *zap.Logger
	table  *theorem.Table
	opts   Options
	rules  []compiledRule
}

// NewAggregator validates the options and compiles the recommendation rules.
func NewAggregator(logger *zap.Logger, table *theorem.Table, opts Options) (*Aggregator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if table == nil {
		return nil, fmt.Errorf("theorem table cannot be nil")
	}

	if opts.ImplementationCost <= 0 || !mathutil.IsFinite(opts.ImplementationCost) {
		opts.ImplementationCost = constants.DefaultImplementationCost
	}
	if opts.TopN <= 0 {
		opts.TopN = constants.DefaultTopN
	}
	if opts.TopN > table.Len() {
		opts.TopN = table.Len()
	}
	if opts.PhaseWeeks <= 0 {
		opts.PhaseWeeks = constants.DefaultPhaseWeeks
	}
	if opts.Rules == nil {
		opts.Rules = DefaultRules()
	}
	if opts.Formatter == nil {
		opts.Formatter = format.Default()
	}

	rules, err := compileRules(opts.Rules)
	if err != nil {
		return nil, err
	}

	return &Aggregator{logger: logger, table: table, opts: opts, rules: rules}, nil
}

// Options returns the effective options after defaults were applied.
func (a *Aggregator) Options() Options {
	return a.opts
}

// Summarize evaluates every theorem for the input and assembles the summary.
func (a *Aggregator) Summarize(in optimization.Input) (optimization.Summary, error) {
	results, err := evaluator.EvaluateAll(in, a.table)
	if err != nil {
		return optimization.Summary{}, err
	}

	var total float64
	gains := make([]float64, 0, len(results))
	for _, r := range results {
		total += r.SavingsAmount
		gains = append(gains, r.EfficiencyGain)
	}

	annual := total * constants.MonthsPerYear
	if !mathutil.IsFinite(total) || !mathutil.IsFinite(annual) {
		return optimization.Summary{}, fmt.Errorf("%w: monthly_cost %v is too large, projected savings overflow",
			optimization.ErrInvalidInput, in.MonthlyCost)
	}

	recommendations, err := a.recommend(in, results)
	if err != nil {
		return optimization.Summary{}, err
	}

	summary := a.Rerank(optimization.Summary{
		Input:                 in,
		TotalSavings:          total,
		AnnualSavings:         annual,
		ImplementationCost:    a.opts.ImplementationCost,
		ROIEstimate:           ComputeROI(a.opts.ImplementationCost, total),
		AverageEfficiencyGain: mathutil.Mean(gains),
		Results:               results,
		Recommendations:       recommendations,
		RiskAssessment:        defaultRiskAssessment,
		SuccessMetrics:        a.successMetrics(),
	})

	a.logger.Debug("summary computed",
		zap.String("op", "report.Summarize"),
		zap.Float64("monthlyCost", in.MonthlyCost),
		zap.Float64("totalSavings", summary.TotalSavings),
		zap.Bool("roiDefined", summary.ROIEstimate.Defined),
		zap.Int("recommendations", len(summary.Recommendations)),
	)

	return summary, nil
}

// Rerank selects the top results from s.Results and rebuilds the roadmap and
// its recommendations to follow them. Rule recommendations are kept as given.
func (a *Aggregator) Rerank(s optimization.Summary) optimization.Summary {
	top := Rank(s.Results, a.opts.TopN)
	roadmap := a.roadmap(top)

	recommendations := make([]optimization.Recommendation, 0, len(s.Recommendations)+len(roadmap))
	for _, r := range s.Recommendations {
		if r.Rule != roadmapRule {
			recommendations = append(recommendations, r)
		}
	}

	s.TopResults = top
	s.Roadmap = roadmap
	s.Recommendations = append(recommendations, phaseRecommendations(roadmap)...)
	return s
}

// ComputeROI returns the payback period in months. A total saving within a
// cent of zero yields an undefined ROI rather than a division by zero.
func ComputeROI(implementationCost, totalSavings float64) optimization.ROI {
	if mathutil.IsZero(totalSavings) || !mathutil.IsFinite(totalSavings) {
		return optimization.ROI{}
	}
	return optimization.ROI{Defined: true, Months: implementationCost / totalSavings}
}

// Rank returns the n results with the largest savings, highest first. Ties are
// broken by ascending theorem id. The input slice is not modified.
func Rank(results []optimization.Result, n int) []optimization.Result {
	ranked := make([]optimization.Result, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].SavingsAmount != ranked[j].SavingsAmount {
			return ranked[i].SavingsAmount > ranked[j].SavingsAmount
		}
		return ranked[i].TheoremID < ranked[j].TheoremID
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

func (a *Aggregator) roadmap(top []optimization.Result) []optimization.Phase {
	phases := make([]optimization.Phase, 0, len(top))
	for i, r := range top {
		entry, err := a.table.Lookup(r.TheoremID)
		if err != nil {
			// results come from the same table
			continue
		}
		start := i*a.opts.PhaseWeeks + 1
		end := (i + 1) * a.opts.PhaseWeeks
		phases = append(phases, optimization.Phase{
			Phase:           i + 1,
			Weeks:           fmt.Sprintf("%d-%d", start, end),
			Focus:           entry.Application,
			TheoremID:       entry.ID,
			TheoremName:     entry.Name,
			ExpectedSavings: r.SavingsAmount,
			Resources:       append([]string(nil), phaseResources[min(i, len(phaseResources)-1)]...),
		})
	}
	return phases
}

func (a *Aggregator) recommend(in optimization.Input, results []optimization.Result) ([]optimization.Recommendation, error) {
	recommendations := make([]optimization.Recommendation, 0, len(a.rules))
	for _, rule := range a.rules {
		var (
			ids   []int
			saved float64
			gains []float64
		)
		for _, r := range results {
			matched, err := rule.match(in, r)
			if err != nil {
				return nil, fmt.Errorf("recommendation rule %q: %w", rule.Name, err)
			}
			if !matched {
				continue
			}
			ids = append(ids, r.TheoremID)
			saved += r.SavingsAmount
			gains = append(gains, r.EfficiencyGain)
		}
		if len(ids) == 0 {
			continue
		}
		recommendations = append(recommendations, optimization.Recommendation{
			Rule:           rule.Name,
			TheoremIDs:     ids,
			MonthlySavings: saved,
			Message: fmt.Sprintf("%s: implement %d theorems for %s monthly savings at %s average efficiency gain",
				rule.Name, len(ids), a.opts.Formatter.WholeCurrency(saved), a.opts.Formatter.Percent(mathutil.Mean(gains))),
		})
	}
	return recommendations, nil
}

func phaseRecommendations(roadmap []optimization.Phase) []optimization.Recommendation {
	out := make([]optimization.Recommendation, 0, len(roadmap))
	for _, p := range roadmap {
		out = append(out, optimization.Recommendation{
			Rule:       roadmapRule,
			TheoremIDs: []int{p.TheoremID},
			Message:    fmt.Sprintf("Phase %d (Weeks %s): %s (theorem %d, %s)", p.Phase, p.Weeks, p.Focus, p.TheoremID, p.TheoremName),
		})
	}
	return out
}

func (a *Aggregator) successMetrics() []string {
	f := a.opts.Formatter
	return []string{
		fmt.Sprintf("Monthly savings >= %s", f.WholeCurrency(constants.TargetMonthlySavings)),
		fmt.Sprintf("Service level >= %s", f.Percent(constants.TargetServiceLevel)),
		fmt.Sprintf("Agent utilization >= %s", f.Percent(constants.TargetAgentUtilization)),
		fmt.Sprintf("ROI within %d months", constants.TargetROIMonths),
	}
}
