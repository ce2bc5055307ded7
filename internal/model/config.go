package model

import (
	"fmt"
	"time"
)

// Config is the full veridict configuration. It is an immutable value
// threaded through the pipeline call, never ambient state, so concurrent
// requests can verify under different thresholds safely.
type Config struct {
	Thresholds  ThresholdConfig   `yaml:"thresholds"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// ThresholdConfig holds the calibrated decision thresholds.
// All values are cosines or ratios in [0,1].
type ThresholdConfig struct {
	// Support is the per-claim similarity threshold: a cited claim is
	// supported iff its best cited-passage similarity reaches it.
	Support float64 `yaml:"support"`

	// RatioLow and RatioHigh partition the overall support ratio:
	// below RatioLow the answer is refused, between the two it is
	// partially supported. RatioLow < RatioHigh is enforced.
	RatioLow  float64 `yaml:"ratio_low"`
	RatioHigh float64 `yaml:"ratio_high"`

	// Coverage is the minimum citation coverage for a fully supported
	// verdict. A well-supported but under-cited answer stays partial.
	Coverage float64 `yaml:"coverage"`
}

// EmbeddingConfig configures the embedding backend.
type EmbeddingConfig struct {
	Provider   string        `yaml:"provider"` // openai, ollama, fake
	Model      string        `yaml:"model"`
	APIKey     string        `yaml:"api_key,omitempty"`
	BaseURL    string        `yaml:"base_url,omitempty"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"` // attempts for transient backend failures
	RateLimit  float64       `yaml:"rate_limit"`  // requests per second against the backend
	RateBurst  int           `yaml:"rate_burst"`

	// Proxy settings, passed through to the backend HTTP client.
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty"`
}

// CacheConfig configures embedding vector caching.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir,omitempty"` // empty disables the disk layer
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig bounds in-request and batch parallelism.
type ConcurrencyConfig struct {
	ScoringWorkers int `yaml:"scoring_workers"` // concurrent claim scoring within one request
	BatchWorkers   int `yaml:"batch_workers"`   // concurrent requests in batch mode
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	Verbose       bool   `yaml:"verbose"`
	CitationStyle string `yaml:"citation_style"` // canonical, ieee, nature, apa
}

// DefaultConfig returns the calibrated defaults. The similarity threshold
// matches the sentence-transformer calibration the pipeline was tuned
// against; changing it shifts every verdict boundary.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: ThresholdConfig{
			Support:   0.35,
			RatioLow:  0.4,
			RatioHigh: 0.75,
			Coverage:  0.6,
		},
		Embedding: EmbeddingConfig{
			Provider:   "openai",
			Model:      "text-embedding-3-small",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			RateLimit:  10,
			RateBurst:  5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			ScoringWorkers: 8,
			BatchWorkers:   4,
		},
		Output: OutputConfig{
			CitationStyle: "canonical",
		},
	}
}

// Validate checks threshold ordering and ranges.
func (c *Config) Validate() error {
	t := c.Thresholds
	for name, v := range map[string]float64{
		"thresholds.support":    t.Support,
		"thresholds.ratio_low":  t.RatioLow,
		"thresholds.ratio_high": t.RatioHigh,
		"thresholds.coverage":   t.Coverage,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, v)
		}
	}
	if t.RatioLow >= t.RatioHigh {
		return fmt.Errorf("thresholds.ratio_low (%v) must be strictly below thresholds.ratio_high (%v)", t.RatioLow, t.RatioHigh)
	}
	if c.Embedding.MaxRetries < 1 {
		return fmt.Errorf("embedding.max_retries must be at least 1, got %d", c.Embedding.MaxRetries)
	}
	if c.Concurrency.ScoringWorkers < 1 {
		return fmt.Errorf("concurrency.scoring_workers must be at least 1, got %d", c.Concurrency.ScoringWorkers)
	}
	return nil
}
