// Package normalisers cleans extracted case text before it reaches the
// classifier. Normalisers are keyed by source type and applied in priority
// order, highest first.
package normalisers

import (
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/verdict-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry implements NormaliserRegistry with priority-based selection.
// When multiple normalisers match a source type, all of them apply, highest
// priority first.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates a new normaliser registry.
func NewRegistry() *Registry {
	return &Registry{
		normalisers: make([]driven.Normaliser, 0),
	}
}

// Register registers a normaliser.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.normalisers = append(r.normalisers, normaliser)
}

// Get retrieves the best-matching normaliser for a source type.
// Returns nil if no normaliser is registered for the type.
func (r *Registry) Get(sourceType string) driven.Normaliser {
	matches := r.GetAll(sourceType)
	if len(matches) == 0 {
		return nil
	}
	return matches[0] // Already sorted by priority (highest first)
}

// GetAll retrieves all normalisers that match a source type, sorted by
// priority (highest first).
func (r *Registry) GetAll(sourceType string) []driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []driven.Normaliser

	for _, n := range r.normalisers {
		if matchesSourceType(n.SupportedTypes(), sourceType) {
			matches = append(matches, n)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Priority() > matches[j].Priority()
	})

	return matches
}

// List returns all registered source types.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeSet := make(map[string]struct{})
	for _, n := range r.normalisers {
		for _, t := range n.SupportedTypes() {
			typeSet[t] = struct{}{}
		}
	}

	types := make([]string, 0, len(typeSet))
	for t := range typeSet {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// matchesSourceType checks if any of the supported types match the given
// source type. "*" matches everything.
func matchesSourceType(supportedTypes []string, sourceType string) bool {
	sourceType = strings.ToLower(strings.TrimSpace(sourceType))

	for _, supported := range supportedTypes {
		supported = strings.ToLower(strings.TrimSpace(supported))

		if supported == sourceType || supported == "*" {
			return true
		}
	}

	return false
}

// DefaultRegistry creates a registry with the built-in normalisers
// pre-registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(&WhitespaceNormaliser{})
	r.Register(&ControlCharNormaliser{})
	r.Register(&MarkdownNormaliser{})
	r.Register(&ScanArtifactNormaliser{})

	return r
}
