package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
	"github.com/custodia-labs/verdict-core/internal/runtime"
)

// witnessCues mark a person mention as a witness when one appears in the
// keyword window around the mention.
var witnessCues = []string{
	"witness", "witnesses", "saw", "observed", "testified",
	"deposed", "stated", "declared", "affirmed", "confirmed",
	"complainant", "informant", "victim",
}

// documentPatterns match evidence-document references that NER will not
// catch.
var documentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:document|evidence|exhibit)\s+(?:no\.?\s*|number\s*)?[A-Z0-9][A-Z0-9\-/]*`),
	regexp.MustCompile(`(?i)(?:receipt|invoice|bill)\s+(?:no\.?\s*|number\s*)?[A-Z0-9][A-Z0-9\-/]*`),
	regexp.MustCompile(`(?i)(?:email|letter)\s+dated\s+\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
	regexp.MustCompile(`(?i)CCTV\s+footage|video\s+recording|photographs?`),
	regexp.MustCompile(`(?i)WhatsApp\s+chat|SMS|text\s+message|affidavit|sale\s+deed|agreement`),
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
	regexp.MustCompile(`\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`),
	regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{4}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*,?\s+\d{4}\b`),
}

var moneyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bRs\.?\s*\d+(?:,\d+)*(?:\.\d+)?`),
	regexp.MustCompile(`(?i)\bINR\s*\d+(?:,\d+)*(?:\.\d+)?`),
	regexp.MustCompile(`₹\s*\d+(?:,\d+)*(?:\.\d+)?`),
}

// EvidenceExtractorConfig holds the extraction tunables.
type EvidenceExtractorConfig struct {
	// ContextWindow is the snippet radius in bytes around a mention.
	ContextWindow int
	Logger        *slog.Logger
}

// EvidenceExtractor turns raw case text into a typed, deduplicated evidence
// bundle by merging NER spans with pattern matches. An unavailable NER
// provider degrades the bundle to pattern-matched fields only; it never
// fails the pipeline.
type EvidenceExtractor struct {
	providers *runtime.Providers
	window    int
	logger    *slog.Logger
}

// NewEvidenceExtractor creates an extractor over the shared provider handle.
func NewEvidenceExtractor(providers *runtime.Providers, cfg EvidenceExtractorConfig) *EvidenceExtractor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	window := cfg.ContextWindow
	if window <= 0 {
		window = 50
	}
	return &EvidenceExtractor{
		providers: providers,
		window:    window,
		logger:    logger,
	}
}

// mention is one candidate occurrence before deduplication.
type mention struct {
	value string
	start int
}

// Extract extracts all evidence from non-empty case text.
func (e *EvidenceExtractor) Extract(ctx context.Context, text string) (*domain.EvidenceBundle, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("extract evidence: %w: empty text", domain.ErrInvalidInput)
	}

	bundle := &domain.EvidenceBundle{
		Witnesses:       []domain.Mention{},
		Documents:       []domain.Mention{},
		Dates:           []domain.Mention{},
		Locations:       []domain.Mention{},
		MonetaryAmounts: []domain.Mention{},
	}

	var persons, dates, locations, amounts []mention

	recogniser := e.providers.EntityRecogniser()
	if recogniser == nil {
		bundle.Degraded = true
		e.logger.Warn("entity recogniser not configured, extraction degraded to pattern matching")
	} else {
		entities, err := recogniser.Entities(ctx, text)
		if err != nil {
			bundle.Degraded = true
			e.logger.Warn("entity recogniser unavailable, extraction degraded to pattern matching", "error", err)
		} else {
			for _, ent := range entities {
				m := mention{value: ent.Value, start: ent.Start}
				switch ent.Type {
				case domain.EntityPerson:
					persons = append(persons, m)
				case domain.EntityDate:
					dates = append(dates, m)
				case domain.EntityLocation:
					locations = append(locations, m)
				case domain.EntityMoney:
					amounts = append(amounts, m)
				}
			}
		}
	}

	// Pattern matches complement the recognised spans.
	dates = append(dates, matchAll(datePatterns, text)...)
	amounts = append(amounts, matchAll(moneyPatterns, text)...)
	documents := matchAll(documentPatterns, text)

	bundle.Witnesses = e.collect(text, e.filterWitnesses(text, persons))
	bundle.Documents = e.collect(text, documents)
	bundle.Dates = e.collect(text, dates)
	bundle.Locations = e.collect(text, locations)
	bundle.MonetaryAmounts = e.collect(text, amounts)
	bundle.Recount()

	e.logger.Info("evidence extracted",
		"witnesses", bundle.Summary.TotalWitnesses,
		"documents", bundle.Summary.TotalDocuments,
		"dates", bundle.Summary.TotalDates,
		"locations", bundle.Summary.TotalLocations,
		"monetary_amounts", bundle.Summary.TotalMonetary,
		"degraded", bundle.Degraded,
	)
	return bundle, nil
}

// filterWitnesses keeps person mentions whose surrounding context contains a
// witness cue. Persons without a cue stay out of the witness list to keep
// false-positive witness claims low.
func (e *EvidenceExtractor) filterWitnesses(text string, persons []mention) []mention {
	var witnesses []mention
	for _, p := range persons {
		window := strings.ToLower(e.snippet(text, p.start, p.start+len(p.value)))
		for _, cue := range witnessCues {
			if strings.Contains(window, cue) {
				witnesses = append(witnesses, p)
				break
			}
		}
	}
	return witnesses
}

// collect orders mentions by first occurrence, deduplicates by normalised
// value and attaches the first occurrence's context snippet.
func (e *EvidenceExtractor) collect(text string, mentions []mention) []domain.Mention {
	sort.SliceStable(mentions, func(i, j int) bool {
		return mentions[i].start < mentions[j].start
	})

	seen := make(map[string]bool, len(mentions))
	out := make([]domain.Mention, 0, len(mentions))
	for _, m := range mentions {
		key := strings.ToLower(strings.TrimSpace(m.value))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, domain.Mention{
			Value:   strings.TrimSpace(m.value),
			Context: e.snippet(text, m.start, m.start+len(m.value)),
		})
	}
	return out
}

// snippet returns the context window around [start, end).
func (e *EvidenceExtractor) snippet(text string, start, end int) string {
	from := start - e.window
	if from < 0 {
		from = 0
	}
	to := end + e.window
	if to > len(text) {
		to = len(text)
	}
	return strings.TrimSpace(text[from:to])
}

func matchAll(patterns []*regexp.Regexp, text string) []mention {
	var out []mention
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			out = append(out, mention{value: text[loc[0]:loc[1]], start: loc[0]})
		}
	}
	return out
}
