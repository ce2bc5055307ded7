package aggregate

import (
	"testing"

	"github.com/veridict/veridict/internal/model"
)

func TestAggregator_Aggregate_Ratios(t *testing.T) {
	agg := NewAggregator()

	claims := []model.Claim{
		{Text: "a", CitedEvidenceIDs: []string{"E1"}, Supported: true},
		{Text: "b", CitedEvidenceIDs: []string{"E2"}, Supported: false},
		{Text: "c"}, // uncited, unsupported
		{Text: "d", CitedEvidenceIDs: []string{"E1"}, Supported: true},
	}

	m := agg.Aggregate(claims, 2)

	if m.CitationCoverage != 0.75 {
		t.Errorf("expected coverage 0.75, got %v", m.CitationCoverage)
	}
	if m.OverallSupportRatio != 0.5 {
		t.Errorf("expected support ratio 0.5, got %v", m.OverallSupportRatio)
	}
	if m.ClaimCount != 4 || m.EvidenceCount != 2 {
		t.Errorf("unexpected counts: %+v", m)
	}
}

func TestAggregator_Aggregate_NoClaims(t *testing.T) {
	agg := NewAggregator()

	m := agg.Aggregate(nil, 5)

	if m.CitationCoverage != 0 || m.OverallSupportRatio != 0 {
		t.Errorf("expected zero ratios for empty claims, got %+v", m)
	}
}

func TestAggregator_Aggregate_RatioBounds(t *testing.T) {
	agg := NewAggregator()

	claims := []model.Claim{
		{Text: "a", CitedEvidenceIDs: []string{"E1"}, Supported: true},
		{Text: "b", CitedEvidenceIDs: []string{"E1"}, Supported: true},
	}

	m := agg.Aggregate(claims, 1)

	if m.OverallSupportRatio < 0 || m.OverallSupportRatio > 1 {
		t.Errorf("support ratio %v outside [0,1]", m.OverallSupportRatio)
	}
	if m.CitationCoverage < 0 || m.CitationCoverage > 1 {
		t.Errorf("coverage %v outside [0,1]", m.CitationCoverage)
	}
}
