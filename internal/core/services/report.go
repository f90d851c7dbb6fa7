package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
	"github.com/custodia-labs/verdict-core/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-core/internal/markdown"
)

const reportDisclaimer = "This report was generated automatically from the submitted case material. " +
	"It is an analytical aid, not legal advice. Consult a qualified advocate before acting on its contents."

// ReportCompilerConfig holds the report-stage settings.
type ReportCompilerConfig struct {
	// OutputDir is the base directory for per-case artifact directories.
	OutputDir string
	Logger    *slog.Logger
	// now is injectable for tests.
	now func() time.Time
}

// ReportCompiler turns the analysis markdown into the per-case report
// artifacts: the markdown file written verbatim and the PDF rendered from
// compiled blocks. Any write or render failure is fatal for the stage.
type ReportCompiler struct {
	renderer  driven.ReportRenderer
	outputDir string
	logger    *slog.Logger
	now       func() time.Time
}

// NewReportCompiler creates a compiler writing under cfg.OutputDir.
func NewReportCompiler(renderer driven.ReportRenderer, cfg ReportCompilerConfig) *ReportCompiler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "documents"
	}
	now := cfg.now
	if now == nil {
		now = time.Now
	}
	return &ReportCompiler{
		renderer:  renderer,
		outputDir: outputDir,
		logger:    logger,
		now:       now,
	}
}

// CompileReport writes the markdown verbatim and renders the PDF into the
// case directory, returning absolute artifact paths.
func (r *ReportCompiler) CompileReport(ctx context.Context, markdownText string, meta domain.CaseMetadata) (*domain.ReportArtifact, error) {
	if strings.TrimSpace(markdownText) == "" {
		return nil, fmt.Errorf("compile report: %w: empty markdown", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(meta.CaseID) == "" {
		return nil, fmt.Errorf("compile report: %w: empty case id", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("compile report: %w", err)
	}
	if r.renderer == nil {
		return nil, fmt.Errorf("compile report: %w: renderer not configured", domain.ErrReportWrite)
	}

	caseDir, err := filepath.Abs(filepath.Join(r.outputDir, meta.CaseID))
	if err != nil {
		return nil, fmt.Errorf("compile report: resolve case directory: %w: %v", domain.ErrReportWrite, err)
	}
	if err := os.MkdirAll(caseDir, 0o755); err != nil {
		return nil, fmt.Errorf("compile report: create case directory: %w: %v", domain.ErrReportWrite, err)
	}

	mdPath := filepath.Join(caseDir, "report.md")
	if err := os.WriteFile(mdPath, []byte(markdownText), 0o644); err != nil {
		return nil, fmt.Errorf("compile report: write markdown: %w: %v", domain.ErrReportWrite, err)
	}

	blocks := markdown.Parse(markdownText)
	pdfBytes, err := r.renderer.Render(blocks)
	if err != nil {
		return nil, fmt.Errorf("compile report: render pdf: %w: %v", domain.ErrReportWrite, err)
	}

	pdfPath := filepath.Join(caseDir, "report.pdf")
	if err := os.WriteFile(pdfPath, pdfBytes, 0o644); err != nil {
		return nil, fmt.Errorf("compile report: write pdf: %w: %v", domain.ErrReportWrite, err)
	}

	artifact := &domain.ReportArtifact{
		PDFPath:       pdfPath,
		MarkdownPath:  mdPath,
		CaseDirectory: caseDir,
		GeneratedAt:   r.now(),
		SizeBytes:     int64(len(pdfBytes)),
	}

	r.logger.Info("report compiled",
		"case_id", meta.CaseID,
		"case_directory", caseDir,
		"pdf_bytes", artifact.SizeBytes,
	)
	return artifact, nil
}

// BuildReportMarkdown assembles the full report document around the analysis
// narrative. Pure function of its typed inputs.
func BuildReportMarkdown(
	meta domain.CaseMetadata,
	facts string,
	classification *domain.ClassificationResult,
	mapping *domain.SectionMapping,
	evidence *domain.EvidenceBundle,
	narrative *domain.AnalysisNarrative,
	generatedAt time.Time,
) string {
	var b strings.Builder

	title := meta.Title
	if strings.TrimSpace(title) == "" {
		title = "Case Analysis Report"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Case ID:** %s\n\n", meta.CaseID)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", generatedAt.Format("02 Jan 2006 15:04 MST"))
	b.WriteString("---\n\n")

	b.WriteString("## Case Facts\n\n")
	if strings.TrimSpace(facts) == "" {
		b.WriteString("No facts recorded.\n\n")
	} else {
		b.WriteString(strings.TrimSpace(facts))
		b.WriteString("\n\n")
	}

	b.WriteString("## Classification\n\n")
	if classification == nil {
		b.WriteString("Not classified.\n\n")
	} else {
		fmt.Fprintf(&b, "- **Legal Domain:** %s (confidence %.2f)\n", classification.Domain, classification.DomainConfidence)
		if classification.PrimaryIssue != "" {
			fmt.Fprintf(&b, "- **Primary Issue:** %s\n", classification.PrimaryIssue)
		}
		if len(classification.SecondaryIssues) > 0 {
			fmt.Fprintf(&b, "- **Secondary Issues:** %s\n", strings.Join(classification.SecondaryIssues, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Applicable Legal Sections\n\n")
	if mapping == nil || len(mapping.Sections) == 0 {
		b.WriteString("No applicable sections identified.\n\n")
	} else {
		b.WriteString("| Act | Section | Title | Bailable | Cognizable |\n")
		b.WriteString("|-----|---------|-------|----------|------------|\n")
		for _, s := range mapping.Sections {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				s.Act, s.SectionID, s.Title, yesNo(s.Bailable), yesNo(s.Cognizable))
		}
		b.WriteString("\n")
		for _, s := range mapping.Sections {
			if s.Note == "" {
				continue
			}
			fmt.Fprintf(&b, "- **%s Section %s:** %s\n", s.Act, s.SectionID, s.Note)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Evidence Summary\n\n")
	if evidence == nil {
		b.WriteString("No evidence extracted.\n\n")
	} else {
		b.WriteString("| Category | Count |\n")
		b.WriteString("|----------|-------|\n")
		fmt.Fprintf(&b, "| Witnesses | %d |\n", evidence.Summary.TotalWitnesses)
		fmt.Fprintf(&b, "| Documents | %d |\n", evidence.Summary.TotalDocuments)
		fmt.Fprintf(&b, "| Dates | %d |\n", evidence.Summary.TotalDates)
		fmt.Fprintf(&b, "| Locations | %d |\n", evidence.Summary.TotalLocations)
		fmt.Fprintf(&b, "| Monetary Amounts | %d |\n", evidence.Summary.TotalMonetary)
		b.WriteString("\n")
		writeMentions(&b, "Witnesses", evidence.Witnesses)
		writeMentions(&b, "Documents", evidence.Documents)
		writeMentions(&b, "Dates", evidence.Dates)
		writeMentions(&b, "Locations", evidence.Locations)
		writeMentions(&b, "Monetary Amounts", evidence.MonetaryAmounts)
		if evidence.Degraded {
			b.WriteString("Entity recognition was unavailable for this run; the evidence above comes from pattern matching only.\n\n")
		}
	}

	b.WriteString("## Legal Analysis\n\n")
	if narrative == nil || strings.TrimSpace(narrative.MarkdownText) == "" {
		b.WriteString("No analysis available.\n\n")
	} else {
		b.WriteString(strings.TrimSpace(narrative.MarkdownText))
		b.WriteString("\n\n")
		if narrative.GeneratedVia == domain.GeneratedViaFallback {
			b.WriteString("The analysis above was produced by a deterministic template because external reasoning was unavailable.\n\n")
		}
	}

	b.WriteString("## Conclusion\n\n")
	b.WriteString(buildConclusion(classification, mapping))
	b.WriteString("\n\n---\n\n")
	fmt.Fprintf(&b, "*%s*\n", reportDisclaimer)

	return b.String()
}

func buildConclusion(classification *domain.ClassificationResult, mapping *domain.SectionMapping) string {
	if classification == nil || classification.Domain == domain.DomainUnclassified {
		return "The case could not be placed in a legal domain with sufficient confidence. " +
			"A manual review of the facts is recommended before proceeding."
	}
	n := 0
	if mapping != nil {
		n = len(mapping.Sections)
	}
	if n == 0 {
		return fmt.Sprintf("The case falls under the %s domain, but no statutory provision could be mapped "+
			"to the stated facts. Further particulars may allow a more precise mapping.", classification.Domain)
	}
	return fmt.Sprintf("The case falls under the %s domain with %s as the primary issue. "+
		"%d statutory provision(s) were identified as potentially applicable and are analysed above.",
		classification.Domain, classification.PrimaryIssue, n)
}

func writeMentions(b *strings.Builder, heading string, mentions []domain.Mention) {
	if len(mentions) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s:**\n\n", heading)
	for _, m := range mentions {
		fmt.Fprintf(b, "- %s\n", m.Value)
	}
	b.WriteString("\n")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
