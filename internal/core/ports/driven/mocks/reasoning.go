package mocks

import (
	"context"
	"errors"
)

// MockReasoningService is an in-memory ReasoningService for testing.
type MockReasoningService struct {
	model    string
	Response string
	Err      error
	// Prompts records every prompt passed to Generate.
	Prompts []string
}

// NewMockReasoningService creates a mock that echoes a canned response.
func NewMockReasoningService(response string) *MockReasoningService {
	return &MockReasoningService{
		model:    "mock-reasoning-model",
		Response: response,
	}
}

// NewFailingReasoningService creates a mock whose calls always fail.
func NewFailingReasoningService(err error) *MockReasoningService {
	if err == nil {
		err = errors.New("reasoning provider down")
	}
	return &MockReasoningService{
		model: "mock-reasoning-model",
		Err:   err,
	}
}

func (m *MockReasoningService) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.Response, nil
}

func (m *MockReasoningService) Model() string {
	return m.model
}

func (m *MockReasoningService) Ping(ctx context.Context) error {
	return m.Err
}

func (m *MockReasoningService) Close() error {
	return nil
}
