// Package embedding computes text embeddings for semantic verification.
// A Service wraps a backend Client with caching, rate limiting, bounded
// retry, and vector normalization so the verifier sees a deterministic,
// always-normalized embedding space.
package embedding

import (
	"context"
	"fmt"
	"math"
)

// Client is the interface for embedding backends.
type Client interface {
	// Name returns the backend name.
	Name() string

	// EmbedBatch computes embeddings for the given texts, one vector per
	// text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding dimension.
	Dimensions() int
}

// Cosine computes cosine similarity between two vectors.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Normalize scales a vector to unit L2 norm in place.
func Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}

	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
}
