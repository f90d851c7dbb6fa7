// Package corpus loads the embedded statute corpus and labelled exemplar
// set and serves similarity search over both.
//
// Entry vectors are computed once through the configured embedding service;
// the first Rank/Search call triggers the build under a write lock so
// concurrent first requests cannot double-embed the corpus.
package corpus

import (
	"context"
	"embed"
	"fmt"
	"math"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
	"github.com/custodia-labs/verdict-core/internal/core/ports/driven"
)

//go:embed data/exemplars.yaml data/sections.yaml
var dataFS embed.FS

// Ensure Index implements both corpus ports
var (
	_ driven.ExemplarIndex = (*Index)(nil)
	_ driven.SectionIndex  = (*Index)(nil)
)

type exemplarEntry struct {
	Label  string `yaml:"label"`
	Domain string `yaml:"domain"`
	Kind   string `yaml:"kind"`
	Text   string `yaml:"text"`

	vector []float32
}

type sectionEntry struct {
	Act         string   `yaml:"act"`
	Section     string   `yaml:"section"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Punishment  string   `yaml:"punishment"`
	Bailable    bool     `yaml:"bailable"`
	Cognizable  bool     `yaml:"cognizable"`
	Note        string   `yaml:"note"`
	Issues      []string `yaml:"issues"`

	vector []float32
}

type exemplarFile struct {
	Exemplars []exemplarEntry `yaml:"exemplars"`
}

type sectionFile struct {
	Sections []sectionEntry `yaml:"sections"`
}

// Index is the in-memory similarity index over the embedded corpus.
// Safe for concurrent use after construction.
type Index struct {
	embedder driven.EmbeddingService

	mu        sync.RWMutex
	ready     bool
	exemplars []exemplarEntry
	sections  []sectionEntry
}

// NewIndex parses and validates the embedded corpus files. Vectors are not
// computed until the first query.
func NewIndex(embedder driven.EmbeddingService) (*Index, error) {
	if embedder == nil {
		return nil, fmt.Errorf("corpus index: %w: embedding service not configured", domain.ErrProviderUnavailable)
	}

	var ef exemplarFile
	if err := unmarshalData("data/exemplars.yaml", &ef); err != nil {
		return nil, err
	}
	var sf sectionFile
	if err := unmarshalData("data/sections.yaml", &sf); err != nil {
		return nil, err
	}

	for _, e := range ef.Exemplars {
		if !domain.KnownDomain(e.Domain) {
			return nil, fmt.Errorf("corpus index: exemplar %q has unknown domain %q", e.Label, e.Domain)
		}
		if e.Kind != driven.ExemplarKindDomain && e.Kind != driven.ExemplarKindIssue {
			return nil, fmt.Errorf("corpus index: exemplar %q has unknown kind %q", e.Label, e.Kind)
		}
	}
	for _, s := range sf.Sections {
		if !domain.KnownActs[s.Act] {
			return nil, fmt.Errorf("corpus index: section %s has unknown act %q", s.Section, s.Act)
		}
	}

	return &Index{
		embedder:  embedder,
		exemplars: ef.Exemplars,
		sections:  sf.Sections,
	}, nil
}

func unmarshalData(name string, out any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("corpus index: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("corpus index: parse %s: %w", name, err)
	}
	return nil
}

// ensureReady embeds all corpus entries exactly once.
func (ix *Index) ensureReady(ctx context.Context) error {
	ix.mu.RLock()
	ready := ix.ready
	ix.mu.RUnlock()
	if ready {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.ready {
		return nil
	}

	texts := make([]string, 0, len(ix.exemplars)+len(ix.sections))
	for _, e := range ix.exemplars {
		texts = append(texts, e.Text)
	}
	for _, s := range ix.sections {
		texts = append(texts, s.embeddingText())
	}

	vectors, err := ix.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("corpus index: embed corpus: %w: %v", domain.ErrProviderUnavailable, err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("corpus index: %w: embedding count mismatch (%d != %d)", domain.ErrProviderUnavailable, len(vectors), len(texts))
	}

	for i := range ix.exemplars {
		ix.exemplars[i].vector = vectors[i]
	}
	for i := range ix.sections {
		ix.sections[i].vector = vectors[len(ix.exemplars)+i]
	}
	ix.ready = true
	return nil
}

// embeddingText builds the text a section is indexed under.
func (s sectionEntry) embeddingText() string {
	text := s.Act + " section " + s.Section + " " + s.Title + " " + s.Description
	for _, issue := range s.Issues {
		text += " " + issue
	}
	return text
}

// Rank scores every exemplar against vector, sorted by score descending with
// ties broken by domain then label ascending.
func (ix *Index) Rank(ctx context.Context, vector []float32) ([]driven.ScoredExemplar, error) {
	if err := ix.ensureReady(ctx); err != nil {
		return nil, err
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	scored := make([]driven.ScoredExemplar, 0, len(ix.exemplars))
	for _, e := range ix.exemplars {
		scored = append(scored, driven.ScoredExemplar{
			Label:  e.Label,
			Domain: e.Domain,
			Kind:   e.Kind,
			Score:  similarity(vector, e.vector),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].Domain != scored[j].Domain {
			return scored[i].Domain < scored[j].Domain
		}
		return scored[i].Label < scored[j].Label
	})
	return scored, nil
}

// Search scores every corpus section belonging to one of acts against
// vector, sorted by relevance descending with ties broken by act then
// section id ascending.
func (ix *Index) Search(ctx context.Context, vector []float32, acts []string) ([]domain.SectionRecord, error) {
	if err := ix.ensureReady(ctx); err != nil {
		return nil, err
	}

	actSet := make(map[string]bool, len(acts))
	for _, act := range acts {
		actSet[act] = true
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	records := make([]domain.SectionRecord, 0, len(ix.sections))
	for _, s := range ix.sections {
		if len(actSet) > 0 && !actSet[s.Act] {
			continue
		}
		records = append(records, domain.SectionRecord{
			Act:            s.Act,
			SectionID:      s.Section,
			Title:          s.Title,
			Description:    s.Description,
			PunishmentText: s.Punishment,
			Bailable:       s.Bailable,
			Cognizable:     s.Cognizable,
			Note:           s.Note,
			RelevanceScore: similarity(vector, s.vector),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].RelevanceScore != records[j].RelevanceScore {
			return records[i].RelevanceScore > records[j].RelevanceScore
		}
		if records[i].Act != records[j].Act {
			return records[i].Act < records[j].Act
		}
		return records[i].SectionID < records[j].SectionID
	})
	return records, nil
}

// Count returns the corpus size.
func (ix *Index) Count() int {
	return len(ix.sections)
}

// similarity is cosine similarity clamped to [0,1]. Negative cosines clamp
// to zero so downstream floors compare against a non-negative scale.
func similarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if cos < 0 {
		return 0
	}
	if cos > 1 {
		return 1
	}
	return cos
}
