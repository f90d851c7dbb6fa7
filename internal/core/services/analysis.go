package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
	"github.com/custodia-labs/verdict-core/internal/runtime"
)

// AnalyzerConfig holds the reasoning-stage tunables.
type AnalyzerConfig struct {
	// Timeout bounds the external reasoning call; a timeout takes the same
	// fallback path as a hard provider error.
	Timeout time.Duration
	// MaxOutputTokens bounds the generated narrative length.
	MaxOutputTokens int
	Logger          *slog.Logger
	// now is injectable for tests.
	now func() time.Time
}

// Analyzer produces the legal-analysis narrative. A reasoning-provider
// failure is absorbed by the deterministic fallback template; the stage
// never fails the pipeline because the external call failed.
type Analyzer struct {
	providers *runtime.Providers
	timeout   time.Duration
	maxTokens int
	logger    *slog.Logger
	now       func() time.Time
}

// NewAnalyzer creates an analyzer over the shared provider handle.
func NewAnalyzer(providers *runtime.Providers, cfg AnalyzerConfig) *Analyzer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	now := cfg.now
	if now == nil {
		now = time.Now
	}
	return &Analyzer{
		providers: providers,
		timeout:   timeout,
		maxTokens: maxTokens,
		logger:    logger,
		now:       now,
	}
}

// Analyze builds the analysis narrative from facts, sections, domain and
// evidence. The returned narrative is always non-empty markdown.
func (a *Analyzer) Analyze(ctx context.Context, facts string, sections []domain.SectionRecord, legalDomain string, evidence *domain.EvidenceBundle) (*domain.AnalysisNarrative, error) {
	if strings.TrimSpace(facts) == "" {
		return nil, fmt.Errorf("analyze: %w: empty facts", domain.ErrInvalidInput)
	}

	prompt := BuildAnalysisPrompt(facts, sections, legalDomain, evidence)

	svc := a.providers.ReasoningService()
	if svc == nil {
		a.logger.Warn("reasoning service not configured, using fallback template")
		return a.fallback(facts, sections, legalDomain, evidence), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := svc.Generate(callCtx, prompt, a.maxTokens)
	if err != nil {
		a.logger.Warn("reasoning call failed, using fallback template",
			"error", fmt.Errorf("%w: %v", domain.ErrReasoningProvider, err),
		)
		return a.fallback(facts, sections, legalDomain, evidence), nil
	}
	if strings.TrimSpace(text) == "" {
		a.logger.Warn("reasoning call returned empty response, using fallback template")
		return a.fallback(facts, sections, legalDomain, evidence), nil
	}

	return &domain.AnalysisNarrative{
		MarkdownText: strings.TrimSpace(text),
		GeneratedVia: domain.GeneratedViaExternal,
		GeneratedAt:  a.now(),
	}, nil
}

func (a *Analyzer) fallback(facts string, sections []domain.SectionRecord, legalDomain string, evidence *domain.EvidenceBundle) *domain.AnalysisNarrative {
	return &domain.AnalysisNarrative{
		MarkdownText: FallbackNarrative(facts, sections, legalDomain, evidence),
		GeneratedVia: domain.GeneratedViaFallback,
		GeneratedAt:  a.now(),
	}
}

// BuildAnalysisPrompt renders the structured reasoning prompt. Pure function
// of its typed inputs.
func BuildAnalysisPrompt(facts string, sections []domain.SectionRecord, legalDomain string, evidence *domain.EvidenceBundle) string {
	var b strings.Builder

	b.WriteString("You are a legal expert analyzing a case. Apply the listed statutory provisions to the facts and respond in markdown.\n\n")
	b.WriteString("**Case Facts:**\n")
	b.WriteString(facts)
	b.WriteString("\n\n**Legal Domain:** ")
	if legalDomain == "" {
		legalDomain = "Not specified"
	}
	b.WriteString(legalDomain)
	b.WriteString("\n\n**Applicable Legal Sections:**\n")

	if len(sections) == 0 {
		b.WriteString("None identified.\n")
	}
	for i, s := range sections {
		fmt.Fprintf(&b, "%d. **%s Section %s**: %s\n", i+1, s.Act, s.SectionID, s.Title)
		fmt.Fprintf(&b, "   Description: %s\n", s.Description)
		if s.PunishmentText != "" {
			fmt.Fprintf(&b, "   Punishment: %s\n", s.PunishmentText)
		}
	}

	if evidence != nil {
		b.WriteString("\n**Evidence Available:**\n")
		fmt.Fprintf(&b, "- Witnesses: %d\n", evidence.Summary.TotalWitnesses)
		fmt.Fprintf(&b, "- Documents: %d\n", evidence.Summary.TotalDocuments)
		fmt.Fprintf(&b, "- Dates: %d\n", evidence.Summary.TotalDates)
		fmt.Fprintf(&b, "- Locations: %d\n", evidence.Summary.TotalLocations)
		fmt.Fprintf(&b, "- Monetary amounts: %d\n", evidence.Summary.TotalMonetary)
	}

	b.WriteString(`
**Response Required:**

1. A markdown table with columns | # | Element | Application to Facts | Satisfied | covering each element of every applicable section, marking Satisfied as Yes, No or Partial.
2. A "## Summary" section assessing the strength of the case.
3. A "## Conclusion" section with a reasoned conclusion about the applicability of the sections.

Use legal terminology appropriately and cite the relevant sections.`)

	return b.String()
}

// FallbackNarrative fills the analysis markdown skeleton from the structured
// inputs without generative reasoning. Pure and deterministic.
func FallbackNarrative(facts string, sections []domain.SectionRecord, legalDomain string, evidence *domain.EvidenceBundle) string {
	var b strings.Builder

	b.WriteString("# Legal Analysis\n\n")
	if legalDomain == "" {
		legalDomain = "Not specified"
	}
	fmt.Fprintf(&b, "**Domain:** %s\n\n", legalDomain)

	b.WriteString("## Element Analysis\n\n")
	b.WriteString("| # | Element | Application to Facts | Satisfied |\n")
	b.WriteString("|---|---------|----------------------|-----------|\n")
	if len(sections) == 0 {
		b.WriteString("| 1 | No statutory provision identified | The facts could not be mapped to a specific provision | No |\n")
	}
	for i, s := range sections {
		fmt.Fprintf(&b, "| %d | %s Section %s: %s | The facts as stated suggest conduct covered by this provision; confirmation requires further inquiry | Partial |\n",
			i+1, s.Act, s.SectionID, s.Title)
	}
	b.WriteString("\n")

	b.WriteString("## Applicable Sections\n\n")
	if len(sections) == 0 {
		b.WriteString("No sections identified.\n")
	}
	for _, s := range sections {
		fmt.Fprintf(&b, "- **%s Section %s** (%s)", s.Act, s.SectionID, s.Title)
		if s.PunishmentText != "" {
			fmt.Fprintf(&b, ". Punishment: %s", s.PunishmentText)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "Based on the facts presented, %d relevant provision(s) were identified under the %s domain. ",
		len(sections), legalDomain)
	if evidence != nil {
		fmt.Fprintf(&b, "The record mentions %d witness(es), %d document reference(s), %d date(s), %d location(s) and %d monetary amount(s). ",
			evidence.Summary.TotalWitnesses,
			evidence.Summary.TotalDocuments,
			evidence.Summary.TotalDates,
			evidence.Summary.TotalLocations,
			evidence.Summary.TotalMonetary)
	}
	b.WriteString("\n\n")

	b.WriteString("## Conclusion\n\n")
	if len(sections) > 0 {
		b.WriteString("The provisions listed above are potentially applicable to the facts. Detailed legal reasoning was not available for this run; the element assessment is a template evaluation and professional legal review is recommended.\n")
	} else {
		b.WriteString("No statutory provision could be mapped to the facts. Further investigation and professional legal review is recommended.\n")
	}

	return b.String()
}
