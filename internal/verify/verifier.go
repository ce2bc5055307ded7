// Package verify scores each claim's support against its cited evidence in
// a shared embedding space.
package verify

import (
	"context"
	"fmt"
	"sync"

	"github.com/veridict/veridict/internal/citation"
	"github.com/veridict/veridict/internal/embedding"
	"github.com/veridict/veridict/internal/model"
)

// Embedder is the slice of the embedding service the verifier needs.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Verifier computes per-claim support scores. Given identical claim text
// and identical evidence embeddings it always yields the identical score;
// every cache and normalization step upstream preserves that.
type Verifier struct {
	embedder  Embedder
	threshold float64
	workers   int
}

// NewVerifier creates a verifier with the given support threshold and
// scoring concurrency.
func NewVerifier(embedder Embedder, threshold float64, workers int) *Verifier {
	if workers <= 0 {
		workers = 1
	}
	return &Verifier{
		embedder:  embedder,
		threshold: threshold,
		workers:   workers,
	}
}

// Score embeds the evidence passages once, embeds each claim's text with
// citation markers stripped, and scores claims concurrently. The support
// score is the maximum cosine similarity over the claim's cited passages:
// a claim combining two citations is judged by its best-matching one, not
// penalized for a weaker secondary citation. Uncited claims score 0 and
// are never supported, whatever their text says.
func (v *Verifier) Score(ctx context.Context, claims []model.Claim, passages []model.EvidencePassage) ([]model.Claim, error) {
	if err := v.embedPassages(ctx, passages); err != nil {
		return nil, err
	}

	byID := make(map[string][]float32, len(passages))
	for _, p := range passages {
		byID[p.ID] = p.Embedding
	}

	claimVectors, err := v.embedClaims(ctx, claims)
	if err != nil {
		return nil, err
	}

	scored := make([]model.Claim, len(claims))
	errs := make([]error, len(claims))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, v.workers)

	for i := range claims {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			scored[idx], errs[idx] = v.scoreOne(claims[idx], claimVectors[idx], byID)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return scored, nil
}

// embedPassages fills missing passage embeddings in place, one backend
// batch for the whole request. Embeddings are request-scoped and reused
// across every claim that cites the passage.
func (v *Verifier) embedPassages(ctx context.Context, passages []model.EvidencePassage) error {
	var texts []string
	var indices []int
	for i, p := range passages {
		if p.Embedding == nil {
			texts = append(texts, p.Text)
			indices = append(indices, i)
		}
	}
	if len(texts) == 0 {
		return nil
	}

	vectors, err := v.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	for j, vec := range vectors {
		passages[indices[j]].Embedding = vec
	}
	return nil
}

// embedClaims embeds cited claims only; uncited claims never need a vector.
func (v *Verifier) embedClaims(ctx context.Context, claims []model.Claim) ([][]float32, error) {
	var texts []string
	var indices []int
	for i, c := range claims {
		if c.Cited() {
			texts = append(texts, citation.Strip(c.Text))
			indices = append(indices, i)
		}
	}

	vectors := make([][]float32, len(claims))
	if len(texts) == 0 {
		return vectors, nil
	}

	fresh, err := v.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	for j, vec := range fresh {
		vectors[indices[j]] = vec
	}
	return vectors, nil
}

func (v *Verifier) scoreOne(claim model.Claim, vector []float32, byID map[string][]float32) (model.Claim, error) {
	if !claim.Cited() {
		claim.SupportScore = 0
		claim.Supported = false
		return claim, nil
	}

	best := 0.0
	for _, id := range claim.CitedEvidenceIDs {
		passageVec, ok := byID[id]
		if !ok {
			return claim, fmt.Errorf("claim cites unknown evidence %s", id)
		}

		sim, err := embedding.Cosine(vector, passageVec)
		if err != nil {
			return claim, fmt.Errorf("score claim against %s: %w", id, err)
		}
		if sim > best {
			best = sim
		}
	}

	claim.SupportScore = clamp01(best)
	claim.Supported = claim.SupportScore >= v.threshold
	return claim, nil
}

// clamp01 keeps scores inside [0,1]; cosine can drift slightly past 1 in
// float arithmetic and negative similarity carries no support signal.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
