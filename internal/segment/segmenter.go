// Package segment splits a generated answer into an ordered sequence of
// claims, each inheriting the citations whose markers fall inside its span.
package segment

import (
	"strings"
	"unicode"

	"github.com/veridict/veridict/internal/citation"
	"github.com/veridict/veridict/internal/model"
)

// Segmenter turns answer text into claim stubs. Scores are not computed
// here; the verifier fills them in later.
type Segmenter struct{}

// NewSegmenter creates a segmenter.
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment splits the answer on sentence terminators followed by whitespace,
// never inside a citation marker. Each claim carries the union of evidence
// IDs from the markers inside its span. Uncited claims are kept: they still
// count against support and coverage.
func (s *Segmenter) Segment(answer string, markers []citation.Marker) ([]model.Claim, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, model.NewMalformedAnswerError("answer text is empty")
	}

	spans := splitSpans(answer, markers)
	if len(spans) == 0 {
		return nil, model.NewMalformedAnswerError("no sentence boundaries found in answer text")
	}

	claims := make([]model.Claim, 0, len(spans))
	for i, sp := range spans {
		claims = append(claims, model.Claim{
			Text:             strings.TrimSpace(answer[sp.start:sp.end]),
			CitedEvidenceIDs: citationsWithin(markers, sp),
			Sentence:         i,
		})
	}

	return claims, nil
}

type span struct {
	start, end int
}

// splitSpans computes sentence byte spans. A terminator only ends a
// sentence when the following byte is whitespace (or text end) and the
// terminator sits outside every marker span.
func splitSpans(text string, markers []citation.Marker) []span {
	var spans []span
	start := 0

	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if insideMarker(markers, i) {
			continue
		}
		if i+1 < len(text) && !unicode.IsSpace(rune(text[i+1])) {
			continue
		}

		if sp := trim(text, start, i+1); sp != nil {
			spans = append(spans, *sp)
		}
		start = i + 1
	}

	// Trailing text without a terminator still forms a claim.
	if sp := trim(text, start, len(text)); sp != nil {
		spans = append(spans, *sp)
	}

	return spans
}

// trim shrinks [start,end) to non-whitespace content, or returns nil when
// nothing remains.
func trim(text string, start, end int) *span {
	for start < end && unicode.IsSpace(rune(text[start])) {
		start++
	}
	for end > start && unicode.IsSpace(rune(text[end-1])) {
		end--
	}
	if start >= end {
		return nil
	}
	return &span{start: start, end: end}
}

func insideMarker(markers []citation.Marker, offset int) bool {
	for _, m := range markers {
		if offset >= m.Start && offset < m.End {
			return true
		}
	}
	return false
}

// citationsWithin unions the evidence IDs of all markers inside the span,
// preserving order of first appearance.
func citationsWithin(markers []citation.Marker, sp span) []string {
	seen := make(map[string]bool)
	var ids []string

	for _, m := range markers {
		if m.Start < sp.start || m.End > sp.end {
			continue
		}
		for _, id := range m.EvidenceIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	return ids
}
