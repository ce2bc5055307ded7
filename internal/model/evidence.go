package model

import "fmt"

// EvidencePassage is a retrieved text unit with a known source document and
// page, treated as ground truth for verification. Passages are immutable for
// the lifetime of one request; the embedding is computed once and reused
// across all claims that cite the passage.
type EvidencePassage struct {
	ID         string    `json:"id"`          // canonical identifier, "E1".."En", positional for this request
	DocumentID string    `json:"document_id"` // source document
	PageNumber int       `json:"page_number"` // page within the source document
	Text       string    `json:"text"`        // passage text
	Embedding  []float32 `json:"-"`           // filled in by the verifier's embedding service
}

// EvidenceID returns the canonical identifier for the passage at the given
// zero-based list position. Citation markers use the same 1-indexed form.
func EvidenceID(position int) string {
	return fmt.Sprintf("E%d", position+1)
}

// BuildPassages converts the request's evidence items into canonical
// passages. IDs are positional and scoped to this request only.
func BuildPassages(items []EvidenceItem) []EvidencePassage {
	passages := make([]EvidencePassage, len(items))
	for i, item := range items {
		passages[i] = EvidencePassage{
			ID:         EvidenceID(i),
			DocumentID: item.DocumentID,
			PageNumber: item.Page,
			Text:       item.Text,
		}
	}
	return passages
}
