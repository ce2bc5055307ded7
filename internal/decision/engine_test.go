package decision

import (
	"testing"

	"github.com/veridict/veridict/internal/model"
)

func testThresholds() model.ThresholdConfig {
	return model.ThresholdConfig{
		Support:   0.35,
		RatioLow:  0.4,
		RatioHigh: 0.75,
		Coverage:  0.6,
	}
}

func TestEngine_Evaluate_RuleOrder(t *testing.T) {
	tests := []struct {
		name        string
		metrics     model.Metrics
		wantVerdict model.Verdict
		wantReason  model.AbstentionReason
	}{
		{
			name:        "empty evidence refuses regardless of ratios",
			metrics:     model.Metrics{EvidenceCount: 0, OverallSupportRatio: 1, CitationCoverage: 1},
			wantVerdict: model.VerdictRefused,
			wantReason:  model.ReasonNoEvidence,
		},
		{
			name:        "low support refuses",
			metrics:     model.Metrics{EvidenceCount: 3, OverallSupportRatio: 0.2, CitationCoverage: 1},
			wantVerdict: model.VerdictRefused,
			wantReason:  model.ReasonLowSupport,
		},
		{
			name:        "moderate support is partial",
			metrics:     model.Metrics{EvidenceCount: 3, OverallSupportRatio: 0.5, CitationCoverage: 1},
			wantVerdict: model.VerdictPartiallySupported,
			wantReason:  model.ReasonModerateSupport,
		},
		{
			name:        "high support with coverage is supported",
			metrics:     model.Metrics{EvidenceCount: 3, OverallSupportRatio: 0.9, CitationCoverage: 0.8},
			wantVerdict: model.VerdictSupported,
			wantReason:  "",
		},
		{
			name:        "high support without coverage stays partial",
			metrics:     model.Metrics{EvidenceCount: 3, OverallSupportRatio: 0.9, CitationCoverage: 0.3},
			wantVerdict: model.VerdictPartiallySupported,
			wantReason:  model.ReasonLowCitationCoverage,
		},
		{
			name:        "ratio exactly at low threshold is partial",
			metrics:     model.Metrics{EvidenceCount: 3, OverallSupportRatio: 0.4, CitationCoverage: 1},
			wantVerdict: model.VerdictPartiallySupported,
			wantReason:  model.ReasonModerateSupport,
		},
		{
			name:        "ratio exactly at high threshold with coverage is supported",
			metrics:     model.Metrics{EvidenceCount: 3, OverallSupportRatio: 0.75, CitationCoverage: 0.6},
			wantVerdict: model.VerdictSupported,
			wantReason:  "",
		},
		{
			name:        "zero claims refuse via low support",
			metrics:     model.Metrics{EvidenceCount: 3, OverallSupportRatio: 0, CitationCoverage: 0},
			wantVerdict: model.VerdictRefused,
			wantReason:  model.ReasonLowSupport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(testThresholds())
			d := engine.Evaluate(tt.metrics)

			if d.Verdict != tt.wantVerdict {
				t.Errorf("expected verdict %s, got %s", tt.wantVerdict, d.Verdict)
			}
			if d.Reason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, d.Reason)
			}
			if !engine.State().Terminal() {
				t.Errorf("expected terminal state, got %s", engine.State())
			}
		})
	}
}

func TestEngine_StateTransitions(t *testing.T) {
	engine := NewEngine(testThresholds())

	if engine.State() != StatePending {
		t.Fatalf("expected pending before evaluation, got %s", engine.State())
	}

	engine.Evaluate(model.Metrics{EvidenceCount: 2, OverallSupportRatio: 0.9, CitationCoverage: 1})

	if engine.State() != StateSupported {
		t.Errorf("expected supported terminal state, got %s", engine.State())
	}
}

func TestEngine_Evaluate_TerminalIsSticky(t *testing.T) {
	engine := NewEngine(testThresholds())

	first := engine.Evaluate(model.Metrics{EvidenceCount: 0})
	// A second evaluation with contradicting metrics must not move a
	// terminal machine.
	second := engine.Evaluate(model.Metrics{EvidenceCount: 5, OverallSupportRatio: 1, CitationCoverage: 1})

	if first != second {
		t.Errorf("terminal decision changed: %+v -> %+v", first, second)
	}
	if engine.State() != StateRefused {
		t.Errorf("expected refused state to stick, got %s", engine.State())
	}
}

func TestEngine_Evaluate_LowThresholdMonotonicity(t *testing.T) {
	// Lowering ratio_low can only move refused -> partially supported,
	// never the reverse, for fixed metrics.
	metrics := model.Metrics{EvidenceCount: 3, OverallSupportRatio: 0.35, CitationCoverage: 1}

	strict := testThresholds()
	lenient := testThresholds()
	lenient.RatioLow = 0.3

	strictVerdict := NewEngine(strict).Evaluate(metrics).Verdict
	lenientVerdict := NewEngine(lenient).Evaluate(metrics).Verdict

	if strictVerdict != model.VerdictRefused {
		t.Fatalf("expected strict thresholds to refuse, got %s", strictVerdict)
	}
	if lenientVerdict == model.VerdictRefused {
		t.Error("lowering ratio_low must not keep a previously refused verdict refused for ratios above the new threshold")
	}

	// And for a verdict already above ratio_low, lowering it changes nothing.
	above := model.Metrics{EvidenceCount: 3, OverallSupportRatio: 0.5, CitationCoverage: 1}
	if NewEngine(strict).Evaluate(above).Verdict != NewEngine(lenient).Evaluate(above).Verdict {
		t.Error("lowering ratio_low changed a verdict that was already above it")
	}
}

func TestEngine_Evaluate_Deterministic(t *testing.T) {
	metrics := model.Metrics{EvidenceCount: 4, OverallSupportRatio: 0.66, CitationCoverage: 0.5}

	first := NewEngine(testThresholds()).Evaluate(metrics)
	second := NewEngine(testThresholds()).Evaluate(metrics)

	if first != second {
		t.Errorf("engine is not deterministic: %+v vs %+v", first, second)
	}
}
