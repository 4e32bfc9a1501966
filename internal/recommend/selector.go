package recommend

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/wuyx05/propensity/internal/predict"
)

// QualifyingPropensity is the decision threshold: prediction rows below it
// never reach the output, whatever their revenue.
const QualifyingPropensity = 0.5

// Recommendation is one final output row: a client and the single product
// recommended for it.
type Recommendation struct {
	Client  int64
	Product string
}

// Stats summarizes one selection pass.
type Stats struct {
	Candidates int
	Qualified  int
	Distinct   int
	Selected   int
}

// Selector turns a prediction pool into the capped, per-client-unique
// recommendation list.
type Selector struct {
	policy Policy
}

// NewSelector creates a selector with an already-validated policy.
func NewSelector(policy Policy) *Selector {
	return &Selector{policy: policy}
}

type candidate struct {
	predict.Prediction
	expected float64
}

// Recommend ranks qualified candidates by expected revenue descending,
// keeps the best product per client, and caps the result per the policy.
// Ties on expected revenue break by client id, then product code, so the
// output is deterministic regardless of input order. Output rows keep the
// descending expected-revenue order.
func (s *Selector) Recommend(predictions []predict.Prediction) ([]Recommendation, Stats) {
	qualified := make([]candidate, 0, len(predictions))
	for _, p := range predictions {
		if p.Propensity < QualifyingPropensity {
			continue
		}
		qualified = append(qualified, candidate{
			Prediction: p,
			expected:   p.Propensity * p.Revenue,
		})
	}

	sort.Slice(qualified, func(i, j int) bool {
		a, b := qualified[i], qualified[j]
		if a.expected != b.expected {
			return a.expected > b.expected
		}
		if a.Client != b.Client {
			return a.Client < b.Client
		}
		return a.Product < b.Product
	})

	// One row per client: the global sort ran first, so a client's other
	// qualifying products are discarded even when they rank well globally.
	seen := make(map[int64]bool, len(qualified))
	deduped := make([]candidate, 0, len(qualified))
	for _, c := range qualified {
		if seen[c.Client] {
			continue
		}
		seen[c.Client] = true
		deduped = append(deduped, c)
	}

	cutoff := s.policy.cutoff(len(qualified))
	if cutoff > len(deduped) {
		cutoff = len(deduped)
	}
	if cutoff < 0 {
		cutoff = 0
	}

	out := make([]Recommendation, cutoff)
	for i := 0; i < cutoff; i++ {
		out[i] = Recommendation{Client: deduped[i].Client, Product: deduped[i].Product}
	}

	stats := Stats{
		Candidates: len(predictions),
		Qualified:  len(qualified),
		Distinct:   len(deduped),
		Selected:   len(out),
	}
	log.Info().
		Str("policy", s.policy.String()).
		Int("candidates", stats.Candidates).
		Int("qualified", stats.Qualified).
		Int("distinct_clients", stats.Distinct).
		Int("selected", stats.Selected).
		Msg("recommendations selected")
	return out, stats
}
