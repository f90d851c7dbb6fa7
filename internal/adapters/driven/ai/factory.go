// Package ai implements the embedding and reasoning collaborators over the
// HTTP APIs of the supported providers.
package ai

import (
	"fmt"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
	"github.com/custodia-labs/verdict-core/internal/core/ports/driven"
)

// Ensure Factory implements AIServiceFactory
var _ driven.AIServiceFactory = (*Factory)(nil)

// Factory creates AI services based on configuration
type Factory struct{}

// NewFactory creates a new AI service factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateEmbeddingService creates an embedding service from settings
func (f *Factory) CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return NewOpenAIEmbedding(settings.APIKey, settings.Model, settings.BaseURL)
	case domain.AIProviderOllama:
		return NewOllamaEmbedding(settings.BaseURL, settings.Model)
	default:
		return nil, fmt.Errorf("%w: %s does not provide embeddings", domain.ErrInvalidProvider, settings.Provider)
	}
}

// CreateReasoningService creates a reasoning service from settings
func (f *Factory) CreateReasoningService(settings *domain.ReasoningSettings) (driven.ReasoningService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return NewGeminiReasoning(settings.APIKey, settings.Model, settings.BaseURL, settings.Temperature)
	case domain.AIProviderOpenAI:
		return NewOpenAIReasoning(settings.APIKey, settings.Model, settings.BaseURL, settings.Temperature)
	case domain.AIProviderOllama:
		return NewOllamaReasoning(settings.BaseURL, settings.Model, settings.Temperature)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}
