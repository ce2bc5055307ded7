// Package aggregate combines per-claim scores into request-level metrics.
package aggregate

import "github.com/veridict/veridict/internal/model"

// Aggregator computes the overall support ratio and citation coverage.
// It produces metrics only; thresholding is the decision engine's job.
type Aggregator struct{}

// NewAggregator creates an aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate computes metrics over the ordered, scored claims. Both ratios
// are 0 for a claimless answer; the empty-evidence rule downstream turns
// that into a refusal.
func (a *Aggregator) Aggregate(claims []model.Claim, evidenceCount int) model.Metrics {
	m := model.Metrics{
		ClaimCount:    len(claims),
		EvidenceCount: evidenceCount,
	}
	if len(claims) == 0 {
		return m
	}

	var cited, supported int
	for _, c := range claims {
		if c.Cited() {
			cited++
		}
		if c.Supported {
			supported++
		}
	}

	m.CitationCoverage = float64(cited) / float64(len(claims))
	m.OverallSupportRatio = float64(supported) / float64(len(claims))
	return m
}
