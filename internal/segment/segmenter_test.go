package segment

import (
	"errors"
	"reflect"
	"testing"

	"github.com/veridict/veridict/internal/citation"
	"github.com/veridict/veridict/internal/model"
)

func parseMarkers(t *testing.T, answer string, evidenceCount int) []citation.Marker {
	t.Helper()
	markers, err := citation.NewParser().Parse(answer, evidenceCount)
	if err != nil {
		t.Fatalf("parse markers: %v", err)
	}
	return markers
}

func TestSegmenter_Segment_TwoSentences(t *testing.T) {
	seg := NewSegmenter()
	answer := "The melting point is 45C [E1]. The compound is stable at room temperature."

	claims, err := seg.Segment(answer, parseMarkers(t, answer, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(claims))
	}

	if claims[0].Text != "The melting point is 45C [E1]." {
		t.Errorf("unexpected first claim: %q", claims[0].Text)
	}
	if !reflect.DeepEqual(claims[0].CitedEvidenceIDs, []string{"E1"}) {
		t.Errorf("expected first claim to cite E1, got %v", claims[0].CitedEvidenceIDs)
	}

	if claims[1].Cited() {
		t.Errorf("expected second claim to be uncited, got %v", claims[1].CitedEvidenceIDs)
	}
	if claims[1].Sentence != 1 {
		t.Errorf("expected sentence index 1, got %d", claims[1].Sentence)
	}
}

func TestSegmenter_Segment_UncitedClaimKept(t *testing.T) {
	seg := NewSegmenter()
	answer := "Uncited statement without any marker."

	claims, err := seg.Segment(answer, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claims) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(claims))
	}
	if claims[0].Cited() {
		t.Error("expected claim to be tagged uncited")
	}
}

func TestSegmenter_Segment_MarkerUnionWithinSentence(t *testing.T) {
	seg := NewSegmenter()
	answer := "Both studies agree [E1] on the mechanism [E2, E3]. A second point follows."

	claims, err := seg.Segment(answer, parseMarkers(t, answer, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(claims))
	}

	want := []string{"E1", "E2", "E3"}
	if !reflect.DeepEqual(claims[0].CitedEvidenceIDs, want) {
		t.Errorf("expected union %v, got %v", want, claims[0].CitedEvidenceIDs)
	}
}

func TestSegmenter_Segment_TrailingTextWithoutTerminator(t *testing.T) {
	seg := NewSegmenter()
	answer := "A complete sentence [E1]. And a trailing fragment"

	claims, err := seg.Segment(answer, parseMarkers(t, answer, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(claims))
	}
	if claims[1].Text != "And a trailing fragment" {
		t.Errorf("unexpected trailing claim: %q", claims[1].Text)
	}
}

func TestSegmenter_Segment_EmptyAnswer(t *testing.T) {
	seg := NewSegmenter()

	for _, answer := range []string{"", "   ", "\n\t"} {
		_, err := seg.Segment(answer, nil)
		if err == nil {
			t.Errorf("expected error for answer %q, got nil", answer)
			continue
		}

		var perr *model.PipelineError
		if !errors.As(err, &perr) || perr.Kind != model.ErrKindMalformedAnswer {
			t.Errorf("expected malformed answer error for %q, got %v", answer, err)
		}
	}
}

func TestSegmenter_Segment_TerminatorMidToken(t *testing.T) {
	seg := NewSegmenter()

	// A period not followed by whitespace does not end a sentence.
	answer := "The v1.5 release fixed it [E1]. Done."
	claims, err := seg.Segment(answer, parseMarkers(t, answer, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d: %#v", len(claims), claims)
	}
	if claims[0].Text != "The v1.5 release fixed it [E1]." {
		t.Errorf("split inside token: %q", claims[0].Text)
	}
}

func TestSegmenter_Segment_OrderPreserved(t *testing.T) {
	seg := NewSegmenter()
	answer := "First [E1]. Second [E2]. Third [E1]."

	claims, err := seg.Segment(answer, parseMarkers(t, answer, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claims) != 3 {
		t.Fatalf("expected 3 claims, got %d", len(claims))
	}
	for i, c := range claims {
		if c.Sentence != i {
			t.Errorf("claim %d has sentence index %d", i, c.Sentence)
		}
	}
}
