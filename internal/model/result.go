package model

// Verdict is the trust decision for one verified answer.
type Verdict string

const (
	VerdictSupported          Verdict = "supported"
	VerdictPartiallySupported Verdict = "partially_supported"
	VerdictRefused            Verdict = "refused"
)

// AbstentionReason explains a non-supported verdict.
type AbstentionReason string

const (
	ReasonNoEvidence          AbstentionReason = "no_evidence"            // empty evidence list
	ReasonLowSupport          AbstentionReason = "low_support"            // support ratio below the low threshold
	ReasonModerateSupport     AbstentionReason = "moderate_support"       // support ratio between the two thresholds
	ReasonLowCitationCoverage AbstentionReason = "low_citation_coverage"  // well supported but under-cited
)

// Metrics are the aggregated per-request confidence figures consumed by the
// decision engine. The aggregator computes them; it never thresholds.
type Metrics struct {
	OverallSupportRatio float64 `json:"overall_support_ratio"` // supported claims / all claims
	CitationCoverage    float64 `json:"citation_coverage"`     // cited claims / all claims
	ClaimCount          int     `json:"claim_count"`
	EvidenceCount       int     `json:"evidence_count"`
}

// CitationReference maps a canonical evidence ID to its display source.
// Attached to supported results so the caller can render page references.
type CitationReference struct {
	EvidenceID string `json:"evidence_id"`
	DocumentID string `json:"document_id"`
	Page       int    `json:"page"`
}

// VerificationResult is the terminal output of the pipeline. It is not
// persisted here; an external logging collaborator may choose to.
type VerificationResult struct {
	Verdict             Verdict             `json:"verdict"`
	OverallSupportRatio float64             `json:"overall_support_ratio"`
	CitationCoverage    float64             `json:"citation_coverage"`
	Claims              []Claim             `json:"claims"`
	AbstentionReason    AbstentionReason    `json:"abstention_reason,omitempty"`
	DisplayedAnswer     string              `json:"displayed_answer"`
	References          []CitationReference `json:"references,omitempty"`
}
