package embedding

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

const fakeDimensions = 256

// FakeClient is a deterministic, offline embedder: each text maps to a
// hashed bag-of-tokens vector, so lexically similar texts get high cosine
// similarity and identical texts always get the identical vector. Used by
// --fake-embedder mode and by tests; never suitable for production
// calibration.
type FakeClient struct{}

// NewFakeClient creates the deterministic embedder.
func NewFakeClient() *FakeClient {
	return &FakeClient{}
}

// Name returns the backend name.
func (c *FakeClient) Name() string {
	return "fake"
}

// EmbedBatch computes hashed token-frequency vectors.
func (c *FakeClient) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = embedTokens(text)
	}
	return vectors, nil
}

// Dimensions returns the fixed vector size.
func (c *FakeClient) Dimensions() int {
	return fakeDimensions
}

func embedTokens(text string) []float32 {
	vec := make([]float32, fakeDimensions)

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, tok := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%fakeDimensions]++
	}

	Normalize(vec)
	return vec
}
