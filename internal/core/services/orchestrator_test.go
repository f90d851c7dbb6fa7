package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
	"github.com/custodia-labs/verdict-core/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/verdict-core/internal/core/ports/driving"
	"github.com/custodia-labs/verdict-core/internal/normalisers"
	"github.com/custodia-labs/verdict-core/internal/runtime"
)

const e2eStatement = "On 15/01/2024 in Mumbai the accused committed cheating and fraud, " +
	"by deception and dishonest inducement taking ₹75,000 from the complainant " +
	"on a false promise of delivery of property. The witness Ramesh saw the money change hands."

// stubExtractor handles .txt uploads in-memory.
type stubExtractor struct{}

func (stubExtractor) Extract(ctx context.Context, file domain.UploadedFile) (*domain.ExtractedText, error) {
	if !strings.HasSuffix(file.Name, ".txt") {
		return nil, domain.ErrUnsupportedFile
	}
	return &domain.ExtractedText{Text: string(file.Content), SourceType: "plain"}, nil
}

func (stubExtractor) Supports(filename string) bool {
	return strings.HasSuffix(filename, ".txt")
}

// newTestOrchestrator wires the full pipeline over the deterministic mocks.
func newTestOrchestrator(t *testing.T, providers *runtime.Providers, dir string) *Orchestrator {
	t.Helper()
	return NewOrchestrator(
		NewClassifier(providers, ClassifierConfig{}),
		NewSectionRetriever(providers, SectionRetrieverConfig{}),
		NewEvidenceExtractor(providers, EvidenceExtractorConfig{}),
		NewAnalyzer(providers, AnalyzerConfig{}),
		NewReportCompiler(&stubRenderer{out: []byte("%PDF-stub")}, ReportCompilerConfig{OutputDir: dir}),
		stubExtractor{},
		normalisers.DefaultRegistry(),
		OrchestratorConfig{UploadDir: dir},
	)
}

func TestOrchestrator_EndToEnd(t *testing.T) {
	providers, _ := newTestProviders(t)
	providers.SetEntityRecogniser(mocks.NewMockEntityRecogniser().
		Add(domain.EntityPerson, "Ramesh").
		Add(domain.EntityLocation, "Mumbai"))
	dir := t.TempDir()
	orchestrator := newTestOrchestrator(t, providers, dir)

	result, err := orchestrator.AnalyzeCase(context.Background(), driving.AnalyzeCaseRequest{
		Title:         "Cheating complaint",
		StatementText: e2eStatement,
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.CaseID)
	require.NotEmpty(t, result.CorrelationID)

	// Classification lands in the criminal domain on the cheating issue.
	assert.Equal(t, domain.DomainCriminal, result.Classification.Domain)
	assert.Equal(t, "Fraud/Cheating", result.Classification.PrimaryIssue)

	// The top mapped section is a cheating provision.
	require.NotEmpty(t, result.Sections.Sections)
	assert.Contains(t, strings.ToLower(result.Sections.Sections[0].Title), "cheating")

	// Evidence captured the date, amount, location and witness.
	assert.Equal(t, 1, result.Evidence.Summary.TotalDates)
	assert.Equal(t, "15/01/2024", result.Evidence.Dates[0].Value)
	assert.Equal(t, 1, result.Evidence.Summary.TotalMonetary)
	assert.Equal(t, "₹75,000", result.Evidence.MonetaryAmounts[0].Value)
	assert.Equal(t, 1, result.Evidence.Summary.TotalLocations)
	assert.Equal(t, 1, result.Evidence.Summary.TotalWitnesses)
	assert.Equal(t, "Ramesh", result.Evidence.Witnesses[0].Value)
	assert.False(t, result.Evidence.Degraded)

	// No reasoning provider is configured, so the template produced the
	// narrative and the pipeline still completed.
	assert.Equal(t, domain.GeneratedViaFallback, result.Narrative.GeneratedVia)

	// Report artifacts exist under the per-case directory.
	assert.Equal(t, filepath.Join(dir, result.CaseID), result.Report.CaseDirectory)
	_, err = os.Stat(result.Report.PDFPath)
	require.NoError(t, err)
	_, err = os.Stat(result.Report.MarkdownPath)
	require.NoError(t, err)

	// Every sub-result carries the run's correlation id.
	assert.Equal(t, result.CorrelationID, result.Classification.CorrelationID)
	assert.Equal(t, result.CorrelationID, result.Sections.CorrelationID)
	assert.Equal(t, result.CorrelationID, result.Evidence.CorrelationID)
	assert.Equal(t, result.CorrelationID, result.Narrative.CorrelationID)
	assert.Equal(t, result.CorrelationID, result.Report.CorrelationID)

	// All stages are timed, ending with done.
	stages := make([]domain.Stage, 0, len(result.Timings))
	for _, timing := range result.Timings {
		stages = append(stages, timing.Stage)
	}
	assert.Contains(t, stages, domain.StageClassified)
	assert.Contains(t, stages, domain.StageEvidenceExtracted)
	assert.Contains(t, stages, domain.StageReported)
	assert.Equal(t, domain.StageDone, stages[len(stages)-1])
	assert.False(t, result.CompletedAt.Before(result.StartedAt))
}

func TestOrchestrator_EmptyRequest(t *testing.T) {
	providers, _ := newTestProviders(t)
	orchestrator := newTestOrchestrator(t, providers, t.TempDir())

	_, err := orchestrator.AnalyzeCase(context.Background(), driving.AnalyzeCaseRequest{Title: "empty"})
	require.Error(t, err)

	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, domain.StageUploaded, stageErr.Stage)
	assert.Equal(t, domain.KindInvalidInput, stageErr.Kind())
	assert.NotEmpty(t, stageErr.CorrelationID)
}

func TestOrchestrator_FileUploadFeedsPipeline(t *testing.T) {
	providers, _ := newTestProviders(t)
	dir := t.TempDir()
	orchestrator := newTestOrchestrator(t, providers, dir)

	result, err := orchestrator.AnalyzeCase(context.Background(), driving.AnalyzeCaseRequest{
		Title: "file upload",
		Files: []domain.UploadedFile{
			{Name: "statement.txt", Content: []byte(e2eStatement)},
			{Name: "photo.jpg", Content: []byte{0xff, 0xd8}}, // skipped, not fatal
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DomainCriminal, result.Classification.Domain)

	// The supported raw upload is persisted under the case directory.
	_, err = os.Stat(filepath.Join(dir, result.CaseID, "uploads", "statement.txt"))
	require.NoError(t, err)
}

func TestOrchestrator_Deterministic(t *testing.T) {
	providers, _ := newTestProviders(t)
	orchestrator := newTestOrchestrator(t, providers, t.TempDir())

	req := driving.AnalyzeCaseRequest{Title: "determinism", StatementText: e2eStatement}
	first, err := orchestrator.AnalyzeCase(context.Background(), req)
	require.NoError(t, err)
	second, err := orchestrator.AnalyzeCase(context.Background(), req)
	require.NoError(t, err)

	// Correlation ids differ per run; the analytical outputs do not.
	assert.NotEqual(t, first.CaseID, second.CaseID)
	assert.Equal(t, first.Classification.Domain, second.Classification.Domain)
	assert.Equal(t, first.Classification.PrimaryIssue, second.Classification.PrimaryIssue)
	assert.Equal(t, first.Classification.DomainConfidence, second.Classification.DomainConfidence)
	require.Equal(t, len(first.Sections.Sections), len(second.Sections.Sections))
	for i := range first.Sections.Sections {
		assert.Equal(t, first.Sections.Sections[i].SectionID, second.Sections.Sections[i].SectionID)
	}
	assert.Equal(t, first.Evidence.Summary, second.Evidence.Summary)
}

func TestOrchestrator_CancelledContext(t *testing.T) {
	providers, _ := newTestProviders(t)
	orchestrator := newTestOrchestrator(t, providers, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orchestrator.AnalyzeCase(ctx, driving.AnalyzeCaseRequest{
		Title:         "cancelled",
		StatementText: e2eStatement,
	})
	require.Error(t, err)
}

func TestOrchestrator_SingleStageOperations(t *testing.T) {
	providers, _ := newTestProviders(t)
	orchestrator := newTestOrchestrator(t, providers, t.TempDir())
	ctx := context.Background()

	classification, err := orchestrator.Classify(ctx, e2eStatement)
	require.NoError(t, err)
	assert.NotEmpty(t, classification.CorrelationID)

	mapping, err := orchestrator.MapSections(ctx, classification.Domain, classification.PrimaryIssue, classification.SecondaryIssues)
	require.NoError(t, err)
	assert.NotEmpty(t, mapping.CorrelationID)
	assert.NotEqual(t, classification.CorrelationID, mapping.CorrelationID)

	bundle, err := orchestrator.ExtractEvidence(ctx, e2eStatement)
	require.NoError(t, err)
	assert.True(t, bundle.Degraded) // no recogniser installed here

	narrative, err := orchestrator.Analyze(ctx, e2eStatement, mapping.Sections, classification.Domain, bundle)
	require.NoError(t, err)
	assert.NotEmpty(t, narrative.MarkdownText)

	artifact, err := orchestrator.CompileReport(ctx, narrative.MarkdownText, domain.CaseMetadata{
		CaseID: "manual-case",
		Title:  "manual",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, artifact.PDFPath)
}

func TestOrchestrator_SingleStageFailureIsStageError(t *testing.T) {
	providers, _ := newTestProviders(t)
	orchestrator := newTestOrchestrator(t, providers, t.TempDir())

	_, err := orchestrator.Classify(context.Background(), "")
	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, domain.StageClassified, stageErr.Stage)
	assert.Equal(t, domain.KindInvalidInput, stageErr.Kind())
}
