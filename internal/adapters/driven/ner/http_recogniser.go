// Package ner implements the entity-recognition collaborator over the HTTP
// API of a NER sidecar.
package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
	"github.com/custodia-labs/verdict-core/internal/core/ports/driven"
)

// Ensure HTTPRecogniser implements EntityRecogniser
var _ driven.EntityRecogniser = (*HTTPRecogniser)(nil)

// labelMap translates sidecar entity labels into domain entity types.
// Unknown labels are dropped.
var labelMap = map[string]domain.EntityType{
	"PERSON": domain.EntityPerson,
	"PER":    domain.EntityPerson,
	"DATE":   domain.EntityDate,
	"GPE":    domain.EntityLocation,
	"LOC":    domain.EntityLocation,
	"FAC":    domain.EntityLocation,
	"MONEY":  domain.EntityMoney,
}

// HTTPRecogniser implements EntityRecogniser against a NER sidecar exposing
// POST /entities.
type HTTPRecogniser struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRecogniser creates a recogniser for the sidecar at baseURL.
func NewHTTPRecogniser(settings domain.NERSettings) (*HTTPRecogniser, error) {
	if settings.BaseURL == "" {
		return nil, fmt.Errorf("NER base URL is required")
	}
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPRecogniser{
		baseURL: settings.BaseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type entitiesRequest struct {
	Text string `json:"text"`
}

type entitiesResponse struct {
	Entities []struct {
		Label string `json:"label"`
		Text  string `json:"text"`
		Start int    `json:"start"`
		End   int    `json:"end"`
	} `json:"entities"`
	Error string `json:"error,omitempty"`
}

// Entities returns typed spans recognised in text, ordered by start offset.
func (h *HTTPRecogniser) Entities(ctx context.Context, text string) ([]domain.Entity, error) {
	body, err := json.Marshal(entitiesRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", h.baseURL+"/entities", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var entResp entitiesResponse
	if err := json.Unmarshal(respBody, &entResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if entResp.Error != "" {
		return nil, fmt.Errorf("NER error: %s", entResp.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("NER sidecar returned status %d", resp.StatusCode)
	}

	entities := make([]domain.Entity, 0, len(entResp.Entities))
	for _, e := range entResp.Entities {
		entityType, ok := labelMap[e.Label]
		if !ok {
			continue
		}
		entities = append(entities, domain.Entity{
			Type:  entityType,
			Value: e.Text,
			Start: e.Start,
			End:   e.End,
		})
	}
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Start < entities[j].Start
	})
	return entities, nil
}

// HealthCheck verifies the recogniser is available
func (h *HTTPRecogniser) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", h.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("NER sidecar returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources held by the recogniser
func (h *HTTPRecogniser) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
