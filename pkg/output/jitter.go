package output

import (
	"math/rand/v2"

	"github.com/iwvelando/bpo-report/pkg/constants"
	"github.com/iwvelando/bpo-report/pkg/mathutil"
	"github.com/iwvelando/bpo-report/pkg/optimization"
)

// maxJitterAmplitude keeps every jittered saving positive.
const maxJitterAmplitude = 0.99

// Jitter returns a copy of the summary with each displayed saving scaled by a
// seeded factor in [1-amplitude, 1+amplitude]. Totals, annual savings, ROI and
// recommendation sums are recomputed from the jittered rows. Recommendation
// messages and the order of top results and roadmap phases are left as they
// were, so callers that show a ranking must re-rank the returned rows. The same
// seed always yields the same output. An amplitude <= 0 returns s unchanged.
func Jitter(s optimization.Summary, seed uint64, amplitude float64) optimization.Summary {
	if amplitude <= 0 || !mathutil.IsFinite(amplitude) {
		return s
	}
	amplitude = mathutil.Clamp(amplitude, 0, maxJitterAmplitude)

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	jittered := make(map[int]float64, len(s.Results))
	results := make([]optimization.Result, len(s.Results))
	var total float64
	for i, r := range s.Results {
		factor := 1 + (rng.Float64()*2-1)*amplitude
		r.SavingsAmount = mathutil.Round(r.SavingsAmount * factor)
		jittered[r.TheoremID] = r.SavingsAmount
		results[i] = r
		total += r.SavingsAmount
	}

	top := make([]optimization.Result, len(s.TopResults))
	for i, r := range s.TopResults {
		if v, ok := jittered[r.TheoremID]; ok {
			r.SavingsAmount = v
		}
		top[i] = r
	}

	roadmap := make([]optimization.Phase, len(s.Roadmap))
	for i, p := range s.Roadmap {
		if v, ok := jittered[p.TheoremID]; ok {
			p.ExpectedSavings = v
		}
		roadmap[i] = p
	}

	recommendations := make([]optimization.Recommendation, len(s.Recommendations))
	for i, r := range s.Recommendations {
		if r.MonthlySavings != 0 {
			var sum float64
			for _, id := range r.TheoremIDs {
				sum += jittered[id]
			}
			r.MonthlySavings = sum
		}
		r.TheoremIDs = append([]int(nil), r.TheoremIDs...)
		recommendations[i] = r
	}

	out := s
	out.Results = results
	out.TopResults = top
	out.Roadmap = roadmap
	out.Recommendations = recommendations
	out.TotalSavings = total
	out.AnnualSavings = total * constants.MonthsPerYear
	out.ROIEstimate = optimization.ROI{}
	if !mathutil.IsZero(total) {
		out.ROIEstimate = optimization.ROI{Defined: true, Months: s.ImplementationCost / total}
	}
	return out
}
