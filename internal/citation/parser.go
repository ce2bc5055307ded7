// Package citation extracts canonical citation markers ([E1], [E2], ...)
// from generated answers and resolves them against the evidence list the
// answer was generated from.
package citation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/veridict/veridict/internal/model"
)

// markerPattern matches one bracketed citation tag carrying one or more
// comma-separated evidence indices: [E1], [E1,E3], [E2, E5]. The leading E
// is optional on continuation indices, so [E1, 3] also parses.
var markerPattern = regexp.MustCompile(`\[\s*E\d+(?:\s*,\s*E?\d+)*\s*\]`)

var indexPattern = regexp.MustCompile(`E?(\d+)`)

// Marker is one parsed citation tag, annotated with its byte offsets in the
// answer text so segmentation can assign it to the enclosing sentence.
type Marker struct {
	Start       int      // byte offset of '[' in the answer text
	End         int      // byte offset one past ']'
	Raw         string   // the tag as written
	EvidenceIDs []string // resolved canonical IDs, order of appearance, deduplicated
}

// Parser resolves citation markers positionally against one request's
// evidence list. Markers are 1-indexed to match the generation prompt:
// [E1] is the first passage in the list.
type Parser struct{}

// NewParser creates a citation parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse scans the answer text and resolves every marker. An index outside
// the evidence list is fatal to the request and is never retried: it means
// the upstream contract was violated, not that confidence is low.
func (p *Parser) Parse(answer string, evidenceCount int) ([]Marker, error) {
	locs := markerPattern.FindAllStringIndex(answer, -1)
	if len(locs) == 0 {
		return nil, nil
	}

	markers := make([]Marker, 0, len(locs))
	for _, loc := range locs {
		raw := answer[loc[0]:loc[1]]

		ids, err := resolveIndices(raw, evidenceCount)
		if err != nil {
			return nil, err
		}

		markers = append(markers, Marker{
			Start:       loc[0],
			End:         loc[1],
			Raw:         raw,
			EvidenceIDs: ids,
		})
	}

	return markers, nil
}

// Strip removes all citation markers from text, collapsing the whitespace
// left behind. Used before embedding so similarity reflects claim content,
// not tag noise.
func Strip(text string) string {
	stripped := markerPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(stripped), " ")
}

// resolveIndices parses the indices inside one raw tag and resolves each to
// a canonical evidence ID for this request.
func resolveIndices(raw string, evidenceCount int) ([]string, error) {
	inner := strings.Trim(raw, "[]")

	seen := make(map[string]bool)
	var ids []string

	for _, part := range strings.Split(inner, ",") {
		m := indexPattern.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}

		k, err := strconv.Atoi(m[1])
		if err != nil {
			// Digits already matched by the pattern; only overflow lands here.
			return nil, model.NewCitationResolutionError(raw, -1, evidenceCount)
		}

		// Markers are 1-indexed; position k-1 must fall inside the list.
		position := k - 1
		if position < 0 || position >= evidenceCount {
			return nil, model.NewCitationResolutionError(raw, k, evidenceCount)
		}

		id := model.EvidenceID(position)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	return ids, nil
}
