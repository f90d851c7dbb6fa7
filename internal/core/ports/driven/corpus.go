package driven

import (
	"context"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
)

// Exemplar kinds. Domain-level exemplars anchor a whole legal domain;
// issue-level exemplars name one claim within it.
const (
	ExemplarKindDomain = "domain"
	ExemplarKindIssue  = "issue"
)

// ScoredExemplar is one labelled reference example scored against a query
// vector. Score is a similarity normalised to [0,1].
type ScoredExemplar struct {
	Label  string
	Domain string
	Kind   string
	Score  float64
}

// ExemplarIndex ranks the pre-embedded labelled reference set against a
// query vector. Implementations must be safe for concurrent reads and
// deterministic: equal scores order by domain then label ascending.
type ExemplarIndex interface {
	// Rank returns all exemplars scored against vector, sorted by score
	// descending.
	Rank(ctx context.Context, vector []float32) ([]ScoredExemplar, error)
}

// SectionIndex performs similarity search over the statute section corpus.
type SectionIndex interface {
	// Search returns every corpus record belonging to one of acts, scored
	// against vector and sorted by relevance score descending with ties
	// broken by act then section id ascending.
	Search(ctx context.Context, vector []float32, acts []string) ([]domain.SectionRecord, error)

	// Count returns the corpus size
	Count() int
}
