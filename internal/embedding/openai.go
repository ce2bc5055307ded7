package embedding

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/veridict/veridict/internal/model"
	"github.com/veridict/veridict/internal/util"
)

// OpenAIClient embeds text through the OpenAI embeddings API, or any
// OpenAI-compatible endpoint via a custom base URL.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates an OpenAI embedding client.
func NewOpenAIClient(cfg model.EmbeddingConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	embModel := cfg.Model
	if embModel == "" {
		embModel = "text-embedding-3-small"
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		},
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  embModel,
	}, nil
}

// Name returns the backend name.
func (c *OpenAIClient) Name() string {
	return "openai"
}

// EmbedBatch computes embeddings for the given texts in one API call.
func (c *OpenAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("invalid embedding index %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	return vectors, nil
}

// Dimensions returns the embedding dimension of the configured model.
func (c *OpenAIClient) Dimensions() int {
	switch c.model {
	case "text-embedding-3-large":
		return 3072
	default:
		return 1536
	}
}
