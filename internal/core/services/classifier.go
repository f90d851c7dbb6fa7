package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
	"github.com/custodia-labs/verdict-core/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-core/internal/runtime"
)

// ClassifierConfig holds the classifier tunables.
type ClassifierConfig struct {
	// SimilarityFloor is the minimum exemplar similarity below which the
	// text is reported as Unclassified.
	SimilarityFloor float64
	// SecondaryIssues is how many issue labels follow the primary one.
	SecondaryIssues int
	Logger          *slog.Logger
}

// Classifier maps case text to a legal domain and ranked issue labels by
// cosine similarity against the pre-embedded exemplar set.
//
// The aggregate score of a domain is the maximum similarity over that
// domain's exemplars; the domain of the single best-scoring exemplar
// therefore wins.
type Classifier struct {
	providers *runtime.Providers
	floor     float64
	secondary int
	logger    *slog.Logger
}

// NewClassifier creates a classifier over the shared provider handle.
func NewClassifier(providers *runtime.Providers, cfg ClassifierConfig) *Classifier {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	floor := cfg.SimilarityFloor
	if floor <= 0 {
		floor = 0.35
	}
	secondary := cfg.SecondaryIssues
	if secondary <= 0 {
		secondary = 3
	}
	return &Classifier{
		providers: providers,
		floor:     floor,
		secondary: secondary,
		logger:    logger,
	}
}

// Classify classifies non-empty case text. Text with no exemplar above the
// similarity floor classifies as Unclassified rather than failing.
func (c *Classifier) Classify(ctx context.Context, text string) (*domain.ClassificationResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("classify: %w: empty text", domain.ErrInvalidInput)
	}

	embedder := c.providers.EmbeddingService()
	if embedder == nil {
		return nil, fmt.Errorf("classify: %w: embedding service not configured", domain.ErrProviderUnavailable)
	}
	exemplars := c.providers.ExemplarIndex()
	if exemplars == nil {
		return nil, fmt.Errorf("classify: %w: exemplar index not loaded", domain.ErrProviderUnavailable)
	}

	vector, err := embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("classify: embed text: %w: %v", domain.ErrProviderUnavailable, err)
	}

	scored, err := exemplars.Rank(ctx, vector)
	if err != nil {
		return nil, fmt.Errorf("classify: rank exemplars: %w", err)
	}
	if len(scored) == 0 {
		return nil, fmt.Errorf("classify: %w: exemplar index is empty", domain.ErrProviderUnavailable)
	}

	best := scored[0]
	if best.Score < c.floor {
		c.logger.Info("classification below similarity floor",
			"best_label", best.Label,
			"best_score", best.Score,
			"floor", c.floor,
		)
		return &domain.ClassificationResult{
			Domain:            domain.DomainUnclassified,
			DomainConfidence:  best.Score,
			SecondaryIssues:   []string{},
			RankedPredictions: []domain.RankedPrediction{},
		}, nil
	}

	result := &domain.ClassificationResult{
		Domain:           best.Domain,
		DomainConfidence: best.Score,
		SecondaryIssues:  []string{},
	}

	// Rank issue labels within the winning domain; the domain-level
	// exemplar is excluded from the issue ranking but kept in the
	// prediction list.
	for _, s := range scored {
		if s.Domain != best.Domain {
			continue
		}
		result.RankedPredictions = append(result.RankedPredictions, domain.RankedPrediction{
			Label:      s.Label,
			Confidence: s.Score,
		})
		if s.Kind != driven.ExemplarKindIssue {
			continue
		}
		if result.PrimaryIssue == "" {
			result.PrimaryIssue = s.Label
		} else if len(result.SecondaryIssues) < c.secondary {
			result.SecondaryIssues = append(result.SecondaryIssues, s.Label)
		}
	}

	if result.PrimaryIssue == "" {
		result.PrimaryIssue = "General " + best.Domain
	}

	c.logger.Info("text classified",
		"domain", result.Domain,
		"confidence", result.DomainConfidence,
		"primary_issue", result.PrimaryIssue,
	)
	return result, nil
}
