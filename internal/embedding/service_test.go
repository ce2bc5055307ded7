package embedding

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/veridict/veridict/internal/model"
)

// flakyClient fails the first failures calls, then delegates to a fake.
type flakyClient struct {
	fake     *FakeClient
	failures int
	calls    int
}

func (c *flakyClient) Name() string { return "flaky" }

func (c *flakyClient) Dimensions() int { return c.fake.Dimensions() }

func (c *flakyClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls++
	if c.calls <= c.failures {
		return nil, errors.New("backend unavailable")
	}
	return c.fake.EmbedBatch(ctx, texts)
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Embedding.RateLimit = 0
	return cfg
}

func withRecordedSleeps(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	orig := sleepFunc
	sleepFunc = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { sleepFunc = orig })
	return &slept
}

func TestService_EmbedTexts_RetriesTransientFailures(t *testing.T) {
	slept := withRecordedSleeps(t)

	client := &flakyClient{fake: NewFakeClient(), failures: 2}
	cfg := testConfig()
	cfg.Embedding.MaxRetries = 3
	svc := NewService(client, cfg)

	vectors, err := svc.EmbedTexts(context.Background(), []string{"some text"})
	if err != nil {
		t.Fatalf("expected recovery within retry budget, got %v", err)
	}
	if len(vectors) != 1 {
		t.Fatalf("expected 1 vector, got %d", len(vectors))
	}
	if client.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", client.calls)
	}

	// Exponential backoff: 500ms, then 1s.
	want := []time.Duration{500 * time.Millisecond, time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), *slept)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Errorf("sleep %d: expected %v, got %v", i, d, (*slept)[i])
		}
	}
}

func TestService_EmbedTexts_ExhaustedRetriesSurfaceError(t *testing.T) {
	withRecordedSleeps(t)

	client := &flakyClient{fake: NewFakeClient(), failures: 10}
	cfg := testConfig()
	cfg.Embedding.MaxRetries = 3
	svc := NewService(client, cfg)

	_, err := svc.EmbedTexts(context.Background(), []string{"some text"})
	if err == nil {
		t.Fatal("expected error after exhausting retries, got nil")
	}

	var perr *model.PipelineError
	if !errors.As(err, &perr) || perr.Kind != model.ErrKindEmbeddingComputation {
		t.Errorf("expected embedding computation error, got %v", err)
	}
	if client.calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", client.calls)
	}
}

func TestService_EmbedTexts_NoRetryOnCancellation(t *testing.T) {
	withRecordedSleeps(t)

	client := &cancelingClient{}
	cfg := testConfig()
	cfg.Embedding.MaxRetries = 5
	svc := NewService(client, cfg)

	_, err := svc.EmbedTexts(context.Background(), []string{"some text"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled to pass through, got %v", err)
	}
	if client.calls != 1 {
		t.Errorf("cancellation must not be retried, got %d attempts", client.calls)
	}
}

type cancelingClient struct {
	calls int
}

func (c *cancelingClient) Name() string    { return "canceling" }
func (c *cancelingClient) Dimensions() int { return fakeDimensions }
func (c *cancelingClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls++
	return nil, context.Canceled
}

func TestService_EmbedTexts_CacheHitSkipsBackend(t *testing.T) {
	client := &flakyClient{fake: NewFakeClient()}
	cfg := testConfig()
	cfg.Cache.Enabled = true
	svc := NewService(client, cfg)

	first, err := svc.EmbedTexts(context.Background(), []string{"cached text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.EmbedTexts(context.Background(), []string{"cached text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.calls != 1 {
		t.Errorf("expected a single backend call, got %d", client.calls)
	}
	for i := range first[0] {
		if first[0][i] != second[0][i] {
			t.Fatal("cached vector differs from the original")
		}
	}
}

func TestService_EmbedTexts_VectorsAreNormalized(t *testing.T) {
	svc := NewService(NewFakeClient(), testConfig())

	vectors, err := svc.EmbedTexts(context.Background(), []string{"normalize this vector please"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var norm float64
	for _, x := range vectors[0] {
		norm += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-5 {
		t.Errorf("expected unit vector, got norm %v", math.Sqrt(norm))
	}
}

func TestService_EmbedTexts_OrderPreserved(t *testing.T) {
	svc := NewService(NewFakeClient(), testConfig())

	texts := []string{"alpha beta", "gamma delta", "epsilon zeta"}
	batch, err := svc.EmbedTexts(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, text := range texts {
		single, err := svc.EmbedText(context.Background(), text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for j := range single {
			if batch[i][j] != single[j] {
				t.Fatalf("batch position %d does not match its text", i)
			}
		}
	}
}

func TestCosine_DimensionMismatch(t *testing.T) {
	if _, err := Cosine([]float32{1, 0}, []float32{1, 0, 0}); err == nil {
		t.Error("expected dimension mismatch error, got nil")
	}
}

func TestCosine_Bounds(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}

	sim, err := Cosine(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sim != 0 {
		t.Errorf("orthogonal vectors should score 0, got %v", sim)
	}

	sim, err = Cosine(a, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(sim-1) > 1e-9 {
		t.Errorf("identical vectors should score 1, got %v", sim)
	}
}
