package model

import "fmt"

// ErrorKind classifies pipeline failures for the structured error contract.
// Policy-driven abstention is never an error: a refused verdict is a normal,
// successful result.
type ErrorKind string

const (
	// ErrKindCitationResolution: a citation marker references an evidence
	// index outside the request's evidence list. Upstream contract
	// violation; fatal, never retried.
	ErrKindCitationResolution ErrorKind = "citation_resolution_error"

	// ErrKindMalformedAnswer: segmentation cannot identify any sentence
	// boundary (empty or non-text input). Fatal, surfaced immediately.
	ErrKindMalformedAnswer ErrorKind = "malformed_answer_error"

	// ErrKindEmbeddingComputation: the embedding backend stayed unavailable
	// through the bounded retry budget. Service-unavailable condition,
	// deliberately not masked as a refusal.
	ErrKindEmbeddingComputation ErrorKind = "embedding_computation_error"
)

// PipelineError is the error shape surfaced instead of a result.
type PipelineError struct {
	Kind    ErrorKind `json:"error_kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewCitationResolutionError reports a marker whose index cannot resolve
// within this request's evidence list.
func NewCitationResolutionError(marker string, index, evidenceCount int) *PipelineError {
	return &PipelineError{
		Kind:    ErrKindCitationResolution,
		Message: fmt.Sprintf("citation %s references evidence index %d, but the evidence list has %d entries", marker, index, evidenceCount),
	}
}

// NewMalformedAnswerError reports answer text that yields no claims.
func NewMalformedAnswerError(detail string) *PipelineError {
	return &PipelineError{
		Kind:    ErrKindMalformedAnswer,
		Message: detail,
	}
}

// NewEmbeddingComputationError wraps a transient backend failure that
// exhausted its retry budget.
func NewEmbeddingComputationError(attempts int, err error) *PipelineError {
	return &PipelineError{
		Kind:    ErrKindEmbeddingComputation,
		Message: fmt.Sprintf("embedding backend unavailable after %d attempts: %v", attempts, err),
		Err:     err,
	}
}
