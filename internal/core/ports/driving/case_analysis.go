package driving

import (
	"context"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
)

// AnalyzeCaseRequest is the one-call operation input: a case title plus raw
// text and/or file payloads.
type AnalyzeCaseRequest struct {
	Title         string
	StatementText string
	FIRText       string
	Files         []domain.UploadedFile
}

// CaseAnalysisService exposes the analysis pipeline to the transport layer.
// AnalyzeCase runs the full chain; the remaining operations invoke single
// stages with identical stage contracts. Every operation stamps a fresh
// correlation id on its result, and every failure is a *domain.StageError.
type CaseAnalysisService interface {
	// AnalyzeCase runs the full pipeline over one case
	AnalyzeCase(ctx context.Context, req AnalyzeCaseRequest) (*domain.PipelineResult, error)

	// Classify maps case text to a domain and ranked issue labels
	Classify(ctx context.Context, text string) (*domain.ClassificationResult, error)

	// MapSections retrieves ranked statute sections for a classified issue
	MapSections(ctx context.Context, legalDomain, primaryIssue string, secondaryIssues []string) (*domain.SectionMapping, error)

	// ExtractEvidence extracts typed evidence entities from case text
	ExtractEvidence(ctx context.Context, text string) (*domain.EvidenceBundle, error)

	// Analyze produces a legal-analysis narrative from structured inputs
	Analyze(ctx context.Context, facts string, sections []domain.SectionRecord, legalDomain string, evidence *domain.EvidenceBundle) (*domain.AnalysisNarrative, error)

	// CompileReport renders a narrative into the per-case report artifacts
	CompileReport(ctx context.Context, markdownText string, meta domain.CaseMetadata) (*domain.ReportArtifact, error)
}
