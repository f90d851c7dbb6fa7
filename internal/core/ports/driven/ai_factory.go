package driven

import (
	"github.com/custodia-labs/verdict-core/internal/core/domain"
)

// AIServiceFactory creates AI services based on configuration
type AIServiceFactory interface {
	// CreateEmbeddingService creates an embedding service from settings
	// Returns nil, nil if settings are not configured
	CreateEmbeddingService(settings *domain.EmbeddingSettings) (EmbeddingService, error)

	// CreateReasoningService creates a reasoning service from settings
	// Returns nil, nil if settings are not configured
	CreateReasoningService(settings *domain.ReasoningSettings) (ReasoningService, error)
}
