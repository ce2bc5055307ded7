package embedding

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/veridict/veridict/internal/cache"
	"github.com/veridict/veridict/internal/model"
)

// sleepFunc is the sleep used between retry attempts (injectable for tests).
var sleepFunc = time.Sleep

// Service wraps an embedding Client with vector caching, backend rate
// limiting, bounded retry with backoff, and L2 normalization. All vectors
// leaving the service are unit-normalized, so cosine similarity downstream
// reduces to a dot product over a consistent space.
type Service struct {
	client     Client
	modelName  string
	cache      cache.VectorCache
	cacheTTL   time.Duration
	limiter    *rate.Limiter
	maxRetries int
}

// NewService creates an embedding service from configuration.
func NewService(client Client, cfg *model.Config) *Service {
	s := &Service{
		client:     client,
		modelName:  cfg.Embedding.Model,
		maxRetries: cfg.Embedding.MaxRetries,
	}
	if s.maxRetries < 1 {
		s.maxRetries = 1
	}

	if cfg.Cache.Enabled {
		s.cache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.DiskDir, cfg.Cache.DiskTTL)
		s.cacheTTL = cfg.Cache.MemoryTTL
	}

	if cfg.Embedding.RateLimit > 0 {
		burst := cfg.Embedding.RateBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Embedding.RateLimit), burst)
	}

	return s
}

// EmbedTexts returns one normalized vector per text, in input order.
// Cache hits never touch the backend; misses go out in a single batch.
// Transient backend failures are retried with exponential backoff; an
// exhausted budget surfaces as an embedding computation error, which the
// caller must not fold into a refusal.
func (s *Service) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var missTexts []string
	var missIndices []int
	for i, text := range texts {
		if s.cache != nil {
			if vec, found := s.cache.Get(s.key(text)); found {
				vectors[i] = vec
				continue
			}
		}
		missTexts = append(missTexts, text)
		missIndices = append(missIndices, i)
	}

	if len(missTexts) == 0 {
		return vectors, nil
	}

	fresh, err := s.embedWithRetry(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	for j, vec := range fresh {
		Normalize(vec)
		vectors[missIndices[j]] = vec
		if s.cache != nil {
			_ = s.cache.Set(s.key(missTexts[j]), vec, s.cacheTTL)
		}
	}

	return vectors, nil
}

// EmbedText returns the normalized vector for a single text.
func (s *Service) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (s *Service) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		vectors, err := s.client.EmbedBatch(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err

		// Cancellation is the caller's decision, not a backend fault.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		if attempt < s.maxRetries {
			backoff := time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
			sleepFunc(backoff)
		}
	}

	return nil, model.NewEmbeddingComputationError(s.maxRetries, lastErr)
}

func (s *Service) key(text string) string {
	return cache.Key(s.client.Name(), s.modelName, text)
}
