package model

import "fmt"

// EvidenceItem is one retrieved passage as supplied by the upstream
// retrieval/generation stage. Order in the request is significant:
// citation markers in the answer are positional indices into this list.
type EvidenceItem struct {
	Index      int    `json:"index"`
	DocumentID string `json:"document_id"`
	Page       int    `json:"page"`
	Text       string `json:"text"`
}

// VerifyRequest is the input contract consumed from the generation stage.
type VerifyRequest struct {
	Question     string         `json:"question"`
	AnswerText   string         `json:"answer_text"`
	EvidenceList []EvidenceItem `json:"evidence_list"`
}

// Validate checks the structural contract of the request. Evidence items
// must carry their list position so a reordered or truncated list between
// prompting and verification is caught here instead of silently resolving
// citations to the wrong passage.
func (r *VerifyRequest) Validate() error {
	for i, item := range r.EvidenceList {
		if item.Index != i {
			return fmt.Errorf("evidence item at position %d carries index %d: evidence list reordered or truncated since generation", i, item.Index)
		}
	}
	return nil
}
