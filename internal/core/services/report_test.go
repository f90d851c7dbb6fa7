package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
	"github.com/custodia-labs/verdict-core/internal/markdown"
)

// stubRenderer returns canned bytes or a canned error.
type stubRenderer struct {
	out []byte
	err error
	// blocks records the last render input.
	blocks []markdown.Block
}

func (s *stubRenderer) Render(blocks []markdown.Block) ([]byte, error) {
	s.blocks = blocks
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func testMeta() domain.CaseMetadata {
	return domain.CaseMetadata{
		CaseID:       "case-123",
		Title:        "State vs Accused",
		Domain:       domain.DomainCriminal,
		PrimaryIssue: "Fraud/Cheating",
	}
}

func TestReportCompiler_EmptyMarkdown(t *testing.T) {
	compiler := NewReportCompiler(&stubRenderer{}, ReportCompilerConfig{OutputDir: t.TempDir()})

	_, err := compiler.CompileReport(context.Background(), "  ", testMeta())
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReportCompiler_EmptyCaseID(t *testing.T) {
	compiler := NewReportCompiler(&stubRenderer{}, ReportCompilerConfig{OutputDir: t.TempDir()})

	_, err := compiler.CompileReport(context.Background(), "# Report", domain.CaseMetadata{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReportCompiler_WritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	renderer := &stubRenderer{out: []byte("%PDF-stub")}
	compiler := NewReportCompiler(renderer, ReportCompilerConfig{OutputDir: dir})

	source := "# Report\n\nBody **bold** text.\n"
	artifact, err := compiler.CompileReport(context.Background(), source, testMeta())
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(artifact.PDFPath))
	assert.True(t, filepath.IsAbs(artifact.MarkdownPath))
	assert.Equal(t, filepath.Join(artifact.CaseDirectory, "report.pdf"), artifact.PDFPath)
	assert.Equal(t, int64(len(renderer.out)), artifact.SizeBytes)
	assert.False(t, artifact.GeneratedAt.IsZero())

	// Markdown is written verbatim.
	written, err := os.ReadFile(artifact.MarkdownPath)
	require.NoError(t, err)
	assert.Equal(t, source, string(written))

	pdfBytes, err := os.ReadFile(artifact.PDFPath)
	require.NoError(t, err)
	assert.Equal(t, renderer.out, pdfBytes)

	// The renderer received compiled blocks, not raw text.
	require.NotEmpty(t, renderer.blocks)
	assert.Equal(t, markdown.BlockHeading, renderer.blocks[0].Type)
}

func TestReportCompiler_RenderFailureIsReportWrite(t *testing.T) {
	compiler := NewReportCompiler(&stubRenderer{err: errors.New("render boom")},
		ReportCompilerConfig{OutputDir: t.TempDir()})

	_, err := compiler.CompileReport(context.Background(), "# Report", testMeta())
	require.ErrorIs(t, err, domain.ErrReportWrite)
}

func TestReportCompiler_NilRenderer(t *testing.T) {
	compiler := NewReportCompiler(nil, ReportCompilerConfig{OutputDir: t.TempDir()})

	_, err := compiler.CompileReport(context.Background(), "# Report", testMeta())
	require.ErrorIs(t, err, domain.ErrReportWrite)
}

func TestBuildReportMarkdown_FullDocument(t *testing.T) {
	classification := &domain.ClassificationResult{
		Domain:           domain.DomainCriminal,
		DomainConfidence: 0.82,
		PrimaryIssue:     "Fraud/Cheating",
		SecondaryIssues:  []string{"Theft"},
	}
	mapping := &domain.SectionMapping{
		Domain:       domain.DomainCriminal,
		PrimaryIssue: "Fraud/Cheating",
		Sections:     testSections,
		TotalCount:   2,
	}
	narrative := &domain.AnalysisNarrative{
		MarkdownText: "## Element Analysis\n\nDetailed reasoning here.",
		GeneratedVia: domain.GeneratedViaExternal,
	}
	generatedAt := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)

	text := BuildReportMarkdown(testMeta(), cheatingFacts, classification, mapping, testEvidence(), narrative, generatedAt)

	assert.Contains(t, text, "# State vs Accused")
	assert.Contains(t, text, "**Case ID:** case-123")
	assert.Contains(t, text, "12 Mar 2024")
	assert.Contains(t, text, cheatingFacts)
	assert.Contains(t, text, "**Legal Domain:** Criminal (confidence 0.82)")
	assert.Contains(t, text, "**Secondary Issues:** Theft")
	assert.Contains(t, text, "| Act | Section | Title | Bailable | Cognizable |")
	assert.Contains(t, text, "| IPC | 420 |")
	assert.Contains(t, text, "| Witnesses | 1 |")
	assert.Contains(t, text, "Detailed reasoning here.")
	assert.Contains(t, text, "## Conclusion")
	assert.Contains(t, text, "not legal advice")
	assert.NotContains(t, text, "deterministic template")
}

func TestBuildReportMarkdown_FallbackNotice(t *testing.T) {
	narrative := &domain.AnalysisNarrative{
		MarkdownText: "template analysis",
		GeneratedVia: domain.GeneratedViaFallback,
	}

	text := BuildReportMarkdown(testMeta(), cheatingFacts, nil, nil, nil, narrative, time.Now())
	assert.Contains(t, text, "deterministic template")
	assert.Contains(t, text, "No applicable sections identified.")
	assert.Contains(t, text, "No evidence extracted.")
	assert.Contains(t, text, "Not classified.")
}

func TestBuildReportMarkdown_UnclassifiedConclusion(t *testing.T) {
	classification := &domain.ClassificationResult{Domain: domain.DomainUnclassified}

	text := BuildReportMarkdown(testMeta(), cheatingFacts, classification, nil, nil, nil, time.Now())
	assert.Contains(t, text, "could not be placed in a legal domain")
}

func TestBuildReportMarkdown_DegradedEvidenceNote(t *testing.T) {
	evidence := testEvidence()
	evidence.Degraded = true

	text := BuildReportMarkdown(testMeta(), cheatingFacts, nil, nil, evidence, nil, time.Now())
	assert.Contains(t, text, "pattern matching only")
}
