// Package assemble produces the final structured result for one request.
package assemble

import (
	"strings"

	"github.com/veridict/veridict/internal/decision"
	"github.com/veridict/veridict/internal/model"
	"github.com/veridict/veridict/internal/render"
)

// Abstention messages by reason. A refused verdict never leaks the
// generated text: the caller sees exactly one of these.
var abstentionMessages = map[model.AbstentionReason]string{
	model.ReasonNoEvidence: "No documents have been uploaded yet.",
	model.ReasonLowSupport: "I cannot answer based on the provided documents.",
}

// unverifiedTag annotates unsupported claims in partially supported
// answers so the caller can render confidence inline.
const unverifiedTag = " [unverified]"

// Assembler combines claims, metrics, and the decision into the result
// exposed to the caller.
type Assembler struct {
	style render.Style
}

// NewAssembler creates an assembler with the given citation display style.
func NewAssembler(style render.Style) *Assembler {
	return &Assembler{style: style}
}

// Assemble builds the terminal VerificationResult. The displayed answer
// depends on the verdict: supported answers pass through with citation
// page references attached, partially supported answers carry per-claim
// support annotations, refused answers are replaced by a fixed abstention
// message.
func (a *Assembler) Assemble(answer string, claims []model.Claim, passages []model.EvidencePassage, m model.Metrics, d decision.Decision) *model.VerificationResult {
	result := &model.VerificationResult{
		Verdict:             d.Verdict,
		OverallSupportRatio: m.OverallSupportRatio,
		CitationCoverage:    m.CitationCoverage,
		Claims:              claims,
		AbstentionReason:    d.Reason,
	}

	switch d.Verdict {
	case model.VerdictRefused:
		result.DisplayedAnswer = abstentionMessage(d.Reason)

	case model.VerdictPartiallySupported:
		result.References = references(claims, passages)
		result.DisplayedAnswer = annotate(claims)

	default:
		result.References = references(claims, passages)
		display := render.Citations(answer, a.style, result.References)
		result.DisplayedAnswer = display + render.Footnotes(result.References)
	}

	return result
}

func abstentionMessage(reason model.AbstentionReason) string {
	if msg, ok := abstentionMessages[reason]; ok {
		return msg
	}
	return abstentionMessages[model.ReasonLowSupport]
}

// annotate rebuilds the answer from its claims, tagging each unsupported
// claim so weak spots stay visible inline.
func annotate(claims []model.Claim) string {
	parts := make([]string, 0, len(claims))
	for _, c := range claims {
		text := c.Text
		if !c.Supported {
			text += unverifiedTag
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// references collects the cited passages in order of first citation.
func references(claims []model.Claim, passages []model.EvidencePassage) []model.CitationReference {
	byID := make(map[string]model.EvidencePassage, len(passages))
	for _, p := range passages {
		byID[p.ID] = p
	}

	seen := make(map[string]bool)
	var refs []model.CitationReference
	for _, c := range claims {
		for _, id := range c.CitedEvidenceIDs {
			if seen[id] {
				continue
			}
			seen[id] = true

			if p, ok := byID[id]; ok {
				refs = append(refs, model.CitationReference{
					EvidenceID: p.ID,
					DocumentID: p.DocumentID,
					Page:       p.PageNumber,
				})
			}
		}
	}
	return refs
}
