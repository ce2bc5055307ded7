package embedding

import (
	"fmt"
	"strings"

	"github.com/veridict/veridict/internal/model"
)

// NewClient creates an embedding backend from configuration.
func NewClient(cfg model.EmbeddingConfig) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIClient(cfg)

	case "ollama":
		return NewOllamaClient(cfg)

	case "fake":
		return NewFakeClient(), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai, ollama, fake)", cfg.Provider)
	}
}
