package driven

import (
	"context"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
)

// EntityRecogniser is the NER collaborator. An unavailable recogniser
// degrades evidence extraction, it never fails the pipeline.
type EntityRecogniser interface {
	// Entities returns typed spans recognised in text, ordered by start
	// offset.
	Entities(ctx context.Context, text string) ([]domain.Entity, error)

	// HealthCheck verifies the recogniser is available
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the recogniser
	Close() error
}
