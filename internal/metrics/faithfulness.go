// Package metrics aggregates faithfulness figures across many verified
// requests. It operates purely on pipeline outputs; verification has
// already happened by the time a result lands here.
package metrics

import (
	"sync"

	"github.com/veridict/veridict/internal/model"
)

// Tracker accumulates per-request results into corpus-level counters.
// Safe for concurrent Update calls from batch workers.
type Tracker struct {
	mu                sync.Mutex
	totalQuestions    int
	refusedQuestions  int
	totalClaims       int
	unsupportedClaims int
}

// Summary is the computed aggregate.
type Summary struct {
	TotalQuestions       int     `json:"total_questions"`
	ClaimSupportRate     float64 `json:"claim_support_rate"`     // supported claims / all claims
	RefusalRate          float64 `json:"refusal_rate"`           // refused questions / all questions
	UnsupportedClaimRate float64 `json:"unsupported_claim_rate"` // complement of the support rate
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Update folds one verification result into the counters.
func (t *Tracker) Update(result *model.VerificationResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.totalQuestions++
	if result.Verdict == model.VerdictRefused {
		t.refusedQuestions++
	}

	t.totalClaims += len(result.Claims)
	for _, c := range result.Claims {
		if !c.Supported {
			t.unsupportedClaims++
		}
	}
}

// Compute returns the aggregate metrics. Zero questions yields a zero
// summary rather than NaNs.
func (t *Tracker) Compute() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Summary{TotalQuestions: t.totalQuestions}
	if t.totalQuestions == 0 {
		return s
	}

	s.RefusalRate = float64(t.refusedQuestions) / float64(t.totalQuestions)
	if t.totalClaims > 0 {
		s.UnsupportedClaimRate = float64(t.unsupportedClaims) / float64(t.totalClaims)
		s.ClaimSupportRate = 1 - s.UnsupportedClaimRate
	}
	return s
}
