// Package decision maps aggregated metrics to a verdict through a
// deterministic, ordered rule list.
package decision

import "github.com/veridict/veridict/internal/model"

// State is the decision machine state. A request moves
// PENDING → EVALUATING → one terminal outcome state.
type State string

const (
	StatePending            State = "pending"
	StateEvaluating         State = "evaluating"
	StateSupported          State = "supported"
	StatePartiallySupported State = "partially_supported"
	StateRefused            State = "refused"
)

// Terminal reports whether the state is an outcome state.
func (s State) Terminal() bool {
	switch s {
	case StateSupported, StatePartiallySupported, StateRefused:
		return true
	}
	return false
}

// Decision is the engine's terminal output.
type Decision struct {
	Verdict model.Verdict
	Reason  model.AbstentionReason // empty for a fully supported verdict
}

// Engine evaluates the abstention policy. It holds the thresholds it was
// built with and nothing else, so one engine value is safe for concurrent
// requests and two engines with different thresholds can coexist.
type Engine struct {
	thresholds model.ThresholdConfig
	state      State
	decision   Decision
}

// NewEngine creates an engine in the pending state.
func NewEngine(thresholds model.ThresholdConfig) *Engine {
	return &Engine{
		thresholds: thresholds,
		state:      StatePending,
	}
}

// State returns the current machine state.
func (e *Engine) State() State {
	return e.state
}

// Evaluate runs the ordered rule list, first match wins:
//
//  1. empty evidence list            → REFUSED  (no_evidence)
//  2. ratio below the low threshold  → REFUSED  (low_support)
//  3. ratio below the high threshold → PARTIAL  (moderate_support)
//  4. high ratio and enough coverage → SUPPORTED
//  5. otherwise                      → PARTIAL  (low_citation_coverage)
//
// Rule 5 is deliberate: a well-supported but under-cited answer is not
// fully trustworthy by this system's standard. Evaluating an engine that
// already reached a terminal state returns the same decision again.
func (e *Engine) Evaluate(m model.Metrics) Decision {
	if e.state.Terminal() {
		return e.decision
	}

	e.state = StateEvaluating
	d := e.decide(m)

	switch d.Verdict {
	case model.VerdictSupported:
		e.state = StateSupported
	case model.VerdictPartiallySupported:
		e.state = StatePartiallySupported
	default:
		e.state = StateRefused
	}
	e.decision = d

	return d
}

func (e *Engine) decide(m model.Metrics) Decision {
	t := e.thresholds

	switch {
	case m.EvidenceCount == 0:
		return Decision{Verdict: model.VerdictRefused, Reason: model.ReasonNoEvidence}

	case m.OverallSupportRatio < t.RatioLow:
		return Decision{Verdict: model.VerdictRefused, Reason: model.ReasonLowSupport}

	case m.OverallSupportRatio < t.RatioHigh:
		return Decision{Verdict: model.VerdictPartiallySupported, Reason: model.ReasonModerateSupport}

	case m.CitationCoverage >= t.Coverage:
		return Decision{Verdict: model.VerdictSupported}

	default:
		return Decision{Verdict: model.VerdictPartiallySupported, Reason: model.ReasonLowCitationCoverage}
	}
}
