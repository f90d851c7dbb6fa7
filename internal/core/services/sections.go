package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
	"github.com/custodia-labs/verdict-core/internal/runtime"
)

// SectionRetrieverConfig holds the retrieval tunables.
type SectionRetrieverConfig struct {
	// RelevanceFloor is the minimum relevance score a candidate must clear.
	RelevanceFloor float64
	// TopN caps the returned record count.
	TopN   int
	Logger *slog.Logger
}

// SectionRetriever maps a classified (domain, issue) pair to ranked statute
// sections via similarity search over the corpus, restricted to acts
// plausible for the domain.
type SectionRetriever struct {
	providers *runtime.Providers
	floor     float64
	topN      int
	logger    *slog.Logger
}

// NewSectionRetriever creates a retriever over the shared provider handle.
func NewSectionRetriever(providers *runtime.Providers, cfg SectionRetrieverConfig) *SectionRetriever {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	floor := cfg.RelevanceFloor
	if floor <= 0 {
		floor = 0.25
	}
	topN := cfg.TopN
	if topN <= 0 {
		topN = 8
	}
	return &SectionRetriever{
		providers: providers,
		floor:     floor,
		topN:      topN,
		logger:    logger,
	}
}

// buildSectionQuery builds the composite query string deterministically.
func buildSectionQuery(legalDomain, primaryIssue string, secondaryIssues []string) string {
	parts := []string{legalDomain, primaryIssue}
	parts = append(parts, secondaryIssues...)
	return strings.Join(parts, " | ")
}

// MapSections retrieves ranked sections for a classified issue. An
// Unclassified domain, or no candidate clearing the relevance floor, yields
// an empty mapping rather than an error.
func (r *SectionRetriever) MapSections(ctx context.Context, legalDomain, primaryIssue string, secondaryIssues []string) (*domain.SectionMapping, error) {
	if strings.TrimSpace(legalDomain) == "" {
		return nil, fmt.Errorf("map sections: %w: empty domain", domain.ErrInvalidInput)
	}

	mapping := &domain.SectionMapping{
		Domain:       legalDomain,
		PrimaryIssue: primaryIssue,
		Sections:     []domain.SectionRecord{},
	}
	if legalDomain == domain.DomainUnclassified {
		return mapping, nil
	}

	embedder := r.providers.EmbeddingService()
	if embedder == nil {
		return nil, fmt.Errorf("map sections: %w: embedding service not configured", domain.ErrProviderUnavailable)
	}
	index := r.providers.SectionIndex()
	if index == nil {
		return nil, fmt.Errorf("map sections: %w: section index not loaded", domain.ErrProviderUnavailable)
	}

	query := buildSectionQuery(legalDomain, primaryIssue, secondaryIssues)
	vector, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("map sections: embed query: %w: %v", domain.ErrProviderUnavailable, err)
	}

	candidates, err := index.Search(ctx, vector, domain.ActsForDomain(legalDomain))
	if err != nil {
		return nil, fmt.Errorf("map sections: search corpus: %w", err)
	}

	for _, rec := range candidates {
		if rec.RelevanceScore < r.floor {
			// Candidates are sorted by score descending.
			break
		}
		mapping.TotalCount++
		if len(mapping.Sections) < r.topN {
			mapping.Sections = append(mapping.Sections, rec)
		}
	}

	r.logger.Info("sections mapped",
		"domain", legalDomain,
		"primary_issue", primaryIssue,
		"total_count", mapping.TotalCount,
		"returned", len(mapping.Sections),
	)
	return mapping, nil
}
