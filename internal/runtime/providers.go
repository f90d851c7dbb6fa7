// Package runtime holds the process-wide provider handle shared by all
// pipeline requests.
package runtime

import (
	"context"
	"sync"

	"github.com/custodia-labs/verdict-core/internal/core/ports/driven"
)

// Providers holds references to the shared, read-only resources of the
// pipeline: embedding, reasoning and NER providers plus the corpus indexes.
// It is created once at startup and passed into every stage call.
// Thread-safe for concurrent access.
type Providers struct {
	mu sync.RWMutex

	embedding  driven.EmbeddingService
	reasoning  driven.ReasoningService
	recogniser driven.EntityRecogniser
	exemplars  driven.ExemplarIndex
	sections   driven.SectionIndex
}

// NewProviders creates an empty provider registry
func NewProviders() *Providers {
	return &Providers{}
}

// EmbeddingService returns the current embedding service (may be nil)
func (p *Providers) EmbeddingService() driven.EmbeddingService {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.embedding
}

// ReasoningService returns the current reasoning service (may be nil)
func (p *Providers) ReasoningService() driven.ReasoningService {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.reasoning
}

// EntityRecogniser returns the current NER provider (may be nil)
func (p *Providers) EntityRecogniser() driven.EntityRecogniser {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.recogniser
}

// ExemplarIndex returns the labelled reference index (may be nil)
func (p *Providers) ExemplarIndex() driven.ExemplarIndex {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.exemplars
}

// SectionIndex returns the statute corpus index (may be nil)
func (p *Providers) SectionIndex() driven.SectionIndex {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sections
}

// SetEmbeddingService updates the embedding service, closing the old one.
func (p *Providers) SetEmbeddingService(svc driven.EmbeddingService) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.embedding != nil {
		_ = p.embedding.Close()
	}
	p.embedding = svc
}

// SetReasoningService updates the reasoning service, closing the old one.
func (p *Providers) SetReasoningService(svc driven.ReasoningService) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reasoning != nil {
		_ = p.reasoning.Close()
	}
	p.reasoning = svc
}

// SetEntityRecogniser updates the NER provider, closing the old one.
func (p *Providers) SetEntityRecogniser(svc driven.EntityRecogniser) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.recogniser != nil {
		_ = p.recogniser.Close()
	}
	p.recogniser = svc
}

// SetCorpusIndexes installs the exemplar and section indexes.
func (p *Providers) SetCorpusIndexes(exemplars driven.ExemplarIndex, sections driven.SectionIndex) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exemplars = exemplars
	p.sections = sections
}

// ValidateAndSetEmbedding validates connectivity before installing the
// embedding service.
func (p *Providers) ValidateAndSetEmbedding(ctx context.Context, svc driven.EmbeddingService) error {
	if svc == nil {
		p.SetEmbeddingService(nil)
		return nil
	}
	if err := svc.HealthCheck(ctx); err != nil {
		_ = svc.Close()
		return err
	}
	p.SetEmbeddingService(svc)
	return nil
}

// ValidateAndSetReasoning validates connectivity before installing the
// reasoning service.
func (p *Providers) ValidateAndSetReasoning(ctx context.Context, svc driven.ReasoningService) error {
	if svc == nil {
		p.SetReasoningService(nil)
		return nil
	}
	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return err
	}
	p.SetReasoningService(svc)
	return nil
}

// Close shuts down all providers
func (p *Providers) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.embedding != nil {
		_ = p.embedding.Close()
		p.embedding = nil
	}
	if p.reasoning != nil {
		_ = p.reasoning.Close()
		p.reasoning = nil
	}
	if p.recogniser != nil {
		_ = p.recogniser.Close()
		p.recogniser = nil
	}
	return nil
}
