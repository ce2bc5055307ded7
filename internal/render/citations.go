// Package render turns verification results and canonical citation markers
// into display forms. Everything here is presentational and never affects
// grounding, scoring, or verdicts.
package render

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/veridict/veridict/internal/model"
)

var citationTag = regexp.MustCompile(`\[E(\d+)\]`)

// Style selects a citation rendering style.
type Style string

const (
	StyleCanonical Style = "canonical" // [E1] left as written
	StyleIEEE      Style = "ieee"      // [1]
	StyleNature    Style = "nature"    // superscript digits
	StyleAPA       Style = "apa"       // (document, p. N)
)

// ParseStyle maps a config string to a Style, defaulting to canonical.
func ParseStyle(s string) Style {
	switch Style(strings.ToLower(s)) {
	case StyleIEEE, StyleNature, StyleAPA:
		return Style(strings.ToLower(s))
	default:
		return StyleCanonical
	}
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
}

// Citations re-renders canonical [En] markers in the given style, using the
// references for APA document lookups.
func Citations(text string, style Style, refs []model.CitationReference) string {
	switch style {
	case StyleIEEE:
		return citationTag.ReplaceAllString(text, "[$1]")

	case StyleNature:
		return citationTag.ReplaceAllStringFunc(text, func(tag string) string {
			digits := citationTag.FindStringSubmatch(tag)[1]
			var b strings.Builder
			for _, r := range digits {
				b.WriteRune(superscripts[r])
			}
			return b.String()
		})

	case StyleAPA:
		byID := make(map[string]model.CitationReference, len(refs))
		for _, ref := range refs {
			byID[ref.EvidenceID] = ref
		}
		return citationTag.ReplaceAllStringFunc(text, func(tag string) string {
			id := "E" + citationTag.FindStringSubmatch(tag)[1]
			ref, ok := byID[id]
			if !ok {
				return tag
			}
			return fmt.Sprintf("(%s, p. %d)", ref.DocumentID, ref.Page)
		})

	default:
		return text
	}
}

// Footnotes formats the reference list as a Markdown footnote block for
// display under a supported answer.
func Footnotes(refs []model.CitationReference) string {
	if len(refs) == 0 {
		return ""
	}

	sorted := make([]model.CitationReference, len(refs))
	copy(sorted, refs)
	sort.Slice(sorted, func(i, j int) bool {
		return evidenceNumber(sorted[i].EvidenceID) < evidenceNumber(sorted[j].EvidenceID)
	})

	var b strings.Builder
	b.WriteString("\n---\n**References:**\n")
	for _, ref := range sorted {
		fmt.Fprintf(&b, "- **[%s]** Document `%s`, Page %d\n", ref.EvidenceID, ref.DocumentID, ref.Page)
	}
	return b.String()
}

func evidenceNumber(id string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(id, "E"))
	return n
}
