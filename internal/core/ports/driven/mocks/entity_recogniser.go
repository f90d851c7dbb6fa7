package mocks

import (
	"context"
	"sort"
	"strings"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
)

// MockEntityRecogniser is a dictionary-driven EntityRecogniser for testing.
// Register values per type; Entities finds every occurrence in the text.
type MockEntityRecogniser struct {
	Known map[domain.EntityType][]string
	Err   error
}

// NewMockEntityRecogniser creates an empty recogniser.
func NewMockEntityRecogniser() *MockEntityRecogniser {
	return &MockEntityRecogniser{
		Known: make(map[domain.EntityType][]string),
	}
}

// Add registers a value the recogniser should find.
func (m *MockEntityRecogniser) Add(t domain.EntityType, values ...string) *MockEntityRecogniser {
	m.Known[t] = append(m.Known[t], values...)
	return m
}

func (m *MockEntityRecogniser) Entities(ctx context.Context, text string) ([]domain.Entity, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	var entities []domain.Entity
	for t, values := range m.Known {
		for _, value := range values {
			offset := 0
			for {
				idx := strings.Index(text[offset:], value)
				if idx < 0 {
					break
				}
				start := offset + idx
				entities = append(entities, domain.Entity{
					Type:  t,
					Value: value,
					Start: start,
					End:   start + len(value),
				})
				offset = start + len(value)
			}
		}
	}

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].Start < entities[j].Start
	})
	return entities, nil
}

func (m *MockEntityRecogniser) HealthCheck(ctx context.Context) error {
	return m.Err
}

func (m *MockEntityRecogniser) Close() error {
	return nil
}
