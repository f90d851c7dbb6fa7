package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
	"github.com/custodia-labs/verdict-core/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-core/internal/core/ports/driving"
)

// Verify interface compliance
var _ driving.CaseAnalysisService = (*Orchestrator)(nil)

const sourceTypePlain = "plain"

// OrchestratorConfig holds the pipeline-level settings.
type OrchestratorConfig struct {
	// UploadDir is the base directory for persisted raw uploads.
	UploadDir string
	Logger    *slog.Logger
	// now is injectable for tests.
	now func() time.Time
}

// Orchestrator drives the staged analysis pipeline and owns its aggregated
// result for the duration of one request. Stage services hold no per-case
// state, so one orchestrator serves concurrent requests.
type Orchestrator struct {
	classifier    *Classifier
	retriever     *SectionRetriever
	evidence      *EvidenceExtractor
	analyzer      *Analyzer
	compiler      *ReportCompiler
	textExtractor driven.TextExtractor
	normalisers   driven.NormaliserRegistry

	uploadDir string
	logger    *slog.Logger
	now       func() time.Time
}

// NewOrchestrator wires the stage services into a pipeline.
func NewOrchestrator(
	classifier *Classifier,
	retriever *SectionRetriever,
	evidence *EvidenceExtractor,
	analyzer *Analyzer,
	compiler *ReportCompiler,
	textExtractor driven.TextExtractor,
	normalisers driven.NormaliserRegistry,
	cfg OrchestratorConfig,
) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	uploadDir := cfg.UploadDir
	if uploadDir == "" {
		uploadDir = "documents"
	}
	now := cfg.now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		classifier:    classifier,
		retriever:     retriever,
		evidence:      evidence,
		analyzer:      analyzer,
		compiler:      compiler,
		textExtractor: textExtractor,
		normalisers:   normalisers,
		uploadDir:     uploadDir,
		logger:        logger,
		now:           now,
	}
}

// textPiece is one normalisation unit of the combined case text.
type textPiece struct {
	text       string
	sourceType string
}

// AnalyzeCase runs the full pipeline over one case. Classification and
// evidence extraction run concurrently once the text is preprocessed; every
// other stage is sequential. A fatal stage failure halts the pipeline and is
// returned as a *domain.StageError.
func (o *Orchestrator) AnalyzeCase(ctx context.Context, req driving.AnalyzeCaseRequest) (*domain.PipelineResult, error) {
	caseID := uuid.NewString()
	correlationID := uuid.NewString()
	logger := o.logger.With("case_id", caseID, "correlation_id", correlationID)

	result := &domain.PipelineResult{
		CaseID:        caseID,
		CorrelationID: correlationID,
		Title:         req.Title,
		StartedAt:     o.now(),
	}
	o.recordStage(result, domain.StageStarted, result.StartedAt)
	logger.Info("pipeline started", "title", req.Title, "files", len(req.Files))

	// Upload: gather raw text and file text, tolerating per-file failures.
	stageStart := o.now()
	upload, err := o.upload(ctx, caseID, req)
	if err != nil {
		return nil, o.fail(logger, domain.StageUploaded, correlationID, err)
	}
	o.recordStage(result, domain.StageUploaded, stageStart)

	// Preprocess the combined text before any model sees it.
	stageStart = o.now()
	text := o.preprocess(upload)
	if strings.TrimSpace(text) == "" {
		return nil, o.fail(logger, domain.StagePreprocessed, correlationID,
			fmt.Errorf("preprocess: %w: no usable case text", domain.ErrInvalidInput))
	}
	o.recordStage(result, domain.StagePreprocessed, stageStart)

	// Classification and evidence extraction are independent of each other.
	classifyStart := o.now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		classification, err := o.classifier.Classify(gctx, text)
		if err != nil {
			return domain.NewStageError(domain.StageClassified, correlationID, err)
		}
		classification.CorrelationID = correlationID
		result.Classification = classification
		return nil
	})
	g.Go(func() error {
		bundle, err := o.evidence.Extract(gctx, text)
		if err != nil {
			return domain.NewStageError(domain.StageEvidenceExtracted, correlationID, err)
		}
		bundle.CorrelationID = correlationID
		result.Evidence = bundle
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Error("pipeline stage failed", "error", err)
		return nil, err
	}
	o.recordStage(result, domain.StageClassified, classifyStart)
	o.recordStage(result, domain.StageEvidenceExtracted, classifyStart)

	if err := ctx.Err(); err != nil {
		return nil, o.fail(logger, domain.StageSectionsMapped, correlationID, err)
	}

	stageStart = o.now()
	mapping, err := o.retriever.MapSections(ctx,
		result.Classification.Domain,
		result.Classification.PrimaryIssue,
		result.Classification.SecondaryIssues,
	)
	if err != nil {
		return nil, o.fail(logger, domain.StageSectionsMapped, correlationID, err)
	}
	mapping.CorrelationID = correlationID
	result.Sections = mapping
	o.recordStage(result, domain.StageSectionsMapped, stageStart)

	stageStart = o.now()
	narrative, err := o.analyzer.Analyze(ctx, text, mapping.Sections, result.Classification.Domain, result.Evidence)
	if err != nil {
		return nil, o.fail(logger, domain.StageAnalyzed, correlationID, err)
	}
	narrative.CorrelationID = correlationID
	result.Narrative = narrative
	o.recordStage(result, domain.StageAnalyzed, stageStart)

	stageStart = o.now()
	meta := domain.CaseMetadata{
		CaseID:          caseID,
		Title:           req.Title,
		Domain:          result.Classification.Domain,
		PrimaryIssue:    result.Classification.PrimaryIssue,
		SecondaryIssues: result.Classification.SecondaryIssues,
	}
	reportMarkdown := BuildReportMarkdown(meta, text, result.Classification, mapping, result.Evidence, narrative, o.now())
	artifact, err := o.compiler.CompileReport(ctx, reportMarkdown, meta)
	if err != nil {
		return nil, o.fail(logger, domain.StageReported, correlationID, err)
	}
	artifact.CorrelationID = correlationID
	result.Report = artifact
	o.recordStage(result, domain.StageReported, stageStart)

	result.CompletedAt = o.now()
	o.recordStage(result, domain.StageDone, result.CompletedAt)
	logger.Info("pipeline completed",
		"domain", result.Classification.Domain,
		"sections", len(mapping.Sections),
		"generated_via", narrative.GeneratedVia,
		"elapsed", result.CompletedAt.Sub(result.StartedAt),
	)
	return result, nil
}

// Classify maps case text to a domain and ranked issue labels.
func (o *Orchestrator) Classify(ctx context.Context, text string) (*domain.ClassificationResult, error) {
	correlationID := uuid.NewString()
	result, err := o.classifier.Classify(ctx, text)
	if err != nil {
		return nil, domain.NewStageError(domain.StageClassified, correlationID, err)
	}
	result.CorrelationID = correlationID
	return result, nil
}

// MapSections retrieves ranked statute sections for a classified issue.
func (o *Orchestrator) MapSections(ctx context.Context, legalDomain, primaryIssue string, secondaryIssues []string) (*domain.SectionMapping, error) {
	correlationID := uuid.NewString()
	mapping, err := o.retriever.MapSections(ctx, legalDomain, primaryIssue, secondaryIssues)
	if err != nil {
		return nil, domain.NewStageError(domain.StageSectionsMapped, correlationID, err)
	}
	mapping.CorrelationID = correlationID
	return mapping, nil
}

// ExtractEvidence extracts typed evidence entities from case text.
func (o *Orchestrator) ExtractEvidence(ctx context.Context, text string) (*domain.EvidenceBundle, error) {
	correlationID := uuid.NewString()
	bundle, err := o.evidence.Extract(ctx, text)
	if err != nil {
		return nil, domain.NewStageError(domain.StageEvidenceExtracted, correlationID, err)
	}
	bundle.CorrelationID = correlationID
	return bundle, nil
}

// Analyze produces a legal-analysis narrative from structured inputs.
func (o *Orchestrator) Analyze(ctx context.Context, facts string, sections []domain.SectionRecord, legalDomain string, evidence *domain.EvidenceBundle) (*domain.AnalysisNarrative, error) {
	correlationID := uuid.NewString()
	narrative, err := o.analyzer.Analyze(ctx, facts, sections, legalDomain, evidence)
	if err != nil {
		return nil, domain.NewStageError(domain.StageAnalyzed, correlationID, err)
	}
	narrative.CorrelationID = correlationID
	return narrative, nil
}

// CompileReport renders a narrative into the per-case report artifacts.
func (o *Orchestrator) CompileReport(ctx context.Context, markdownText string, meta domain.CaseMetadata) (*domain.ReportArtifact, error) {
	correlationID := uuid.NewString()
	artifact, err := o.compiler.CompileReport(ctx, markdownText, meta)
	if err != nil {
		return nil, domain.NewStageError(domain.StageReported, correlationID, err)
	}
	artifact.CorrelationID = correlationID
	return artifact, nil
}

// upload gathers the request's raw text and file contents into normalisation
// pieces. File payloads are persisted verbatim; an extraction or persistence
// failure of one file is recorded and skipped.
func (o *Orchestrator) upload(ctx context.Context, caseID string, req driving.AnalyzeCaseRequest) ([]textPiece, error) {
	var pieces []textPiece
	if strings.TrimSpace(req.StatementText) != "" {
		pieces = append(pieces, textPiece{text: req.StatementText, sourceType: sourceTypePlain})
	}
	if strings.TrimSpace(req.FIRText) != "" {
		pieces = append(pieces, textPiece{text: req.FIRText, sourceType: sourceTypePlain})
	}

	if len(req.Files) > 0 && o.textExtractor == nil {
		return nil, fmt.Errorf("upload: %w: text extractor not configured", domain.ErrProviderUnavailable)
	}

	fileErrors := map[string]string{}
	for _, file := range req.Files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("upload: %w", err)
		}
		if file.Name == "" || len(file.Content) == 0 {
			fileErrors[file.Name] = "empty file"
			continue
		}
		if !o.textExtractor.Supports(file.Name) {
			fileErrors[file.Name] = domain.ErrUnsupportedFile.Error()
			continue
		}
		if err := o.persistUpload(caseID, file); err != nil {
			o.logger.Warn("raw upload not persisted", "case_id", caseID, "file", file.Name, "error", err)
		}
		extracted, err := o.textExtractor.Extract(ctx, file)
		if err != nil {
			fileErrors[file.Name] = err.Error()
			continue
		}
		pieces = append(pieces, textPiece{text: extracted.Text, sourceType: extracted.SourceType})
	}

	for name, reason := range fileErrors {
		o.logger.Warn("file skipped during upload", "case_id", caseID, "file", name, "reason", reason)
	}
	if len(pieces) == 0 {
		return nil, fmt.Errorf("upload: %w: no usable input", domain.ErrInvalidInput)
	}
	return pieces, nil
}

// persistUpload writes one raw upload under the case directory.
func (o *Orchestrator) persistUpload(caseID string, file domain.UploadedFile) error {
	dir := filepath.Join(o.uploadDir, caseID, "uploads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, filepath.Base(file.Name)), file.Content, 0o644)
}

// preprocess runs each piece through the normalisers registered for its
// source type, highest priority first, and joins the cleaned pieces.
func (o *Orchestrator) preprocess(pieces []textPiece) string {
	cleaned := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		text := piece.text
		if o.normalisers != nil {
			for _, n := range o.normalisers.GetAll(piece.sourceType) {
				text = n.Normalise(text, piece.sourceType)
			}
		}
		text = strings.TrimSpace(text)
		if text != "" {
			cleaned = append(cleaned, text)
		}
	}
	return strings.Join(cleaned, "\n\n")
}

func (o *Orchestrator) recordStage(result *domain.PipelineResult, stage domain.Stage, startedAt time.Time) {
	completed := o.now()
	result.Timings = append(result.Timings, domain.StageTiming{
		Stage:       stage,
		StartedAt:   startedAt,
		CompletedAt: completed,
		Elapsed:     completed.Sub(startedAt),
	})
}

func (o *Orchestrator) fail(logger *slog.Logger, stage domain.Stage, correlationID string, err error) error {
	stageErr := domain.NewStageError(stage, correlationID, err)
	logger.Error("pipeline stage failed",
		"stage", stage,
		"error_kind", stageErr.Kind(),
		"error", err,
	)
	return stageErr
}
