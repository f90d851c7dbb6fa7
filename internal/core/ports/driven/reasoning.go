package driven

import (
	"context"
)

// ReasoningService is the external reasoning collaborator, treated as a
// black-box text generator.
type ReasoningService interface {
	// Generate produces text for a prompt. maxTokens bounds the output
	// length (the provider may not respect it exactly).
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the reasoning service is available
	Ping(ctx context.Context) error

	// Close releases resources held by the reasoning service
	Close() error
}
