package model

// Claim is one atomic, citation-attributable unit of the generated answer,
// approximately one sentence. Created by segmentation with a zero score,
// scored exactly once by the verifier, immutable afterwards.
type Claim struct {
	Text             string   `json:"text"`                        // claim text, citation markers included
	CitedEvidenceIDs []string `json:"cited_evidence_ids"`          // resolved evidence IDs, order of first appearance
	SupportScore     float64  `json:"support_score"`               // max cosine similarity over cited passages, in [0,1]
	Supported        bool     `json:"supported"`                   // SupportScore >= the support threshold
	Sentence         int      `json:"sentence,omitempty"`          // sentence index in the answer (0-based)
}

// Cited reports whether the claim carries at least one citation.
// An uncited claim never counts as supported, whatever its text says.
func (c *Claim) Cited() bool {
	return len(c.CitedEvidenceIDs) > 0
}
