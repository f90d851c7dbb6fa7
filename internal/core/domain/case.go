package domain

import "time"

// Stage identifies a step of the case analysis pipeline.
type Stage string

const (
	StageStarted           Stage = "started"
	StageUploaded          Stage = "uploaded"
	StagePreprocessed      Stage = "preprocessed"
	StageClassified        Stage = "classified"
	StageSectionsMapped    Stage = "sections_mapped"
	StageEvidenceExtracted Stage = "evidence_extracted"
	StageAnalyzed          Stage = "analyzed"
	StageReported          Stage = "reported"
	StageDone              Stage = "done"
)

// Case is one analysis run. The id is generated once at pipeline start and
// keys every downstream artifact, including the report directory.
type Case struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	FactsText   string    `json:"facts_text"`
	FIRText     string    `json:"fir_text,omitempty"`
	RawFileRefs []string  `json:"raw_file_refs,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CaseMetadata is the read-only slice of a Case that the Report Compiler
// needs to fill the report header.
type CaseMetadata struct {
	CaseID          string   `json:"case_id"`
	Title           string   `json:"title"`
	Domain          string   `json:"domain"`
	PrimaryIssue    string   `json:"primary_issue"`
	SecondaryIssues []string `json:"secondary_issues,omitempty"`
}

// StageTiming records one stage's start/end for the aggregated result.
type StageTiming struct {
	Stage       Stage         `json:"stage"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	Elapsed     time.Duration `json:"elapsed"`
}

// PipelineResult is the aggregated output of the one-call operation.
// The orchestrator owns it for the duration of one request.
type PipelineResult struct {
	CaseID         string                `json:"case_id"`
	CorrelationID  string                `json:"correlation_id"`
	Title          string                `json:"title"`
	Classification *ClassificationResult `json:"classification"`
	Sections       *SectionMapping       `json:"sections"`
	Evidence       *EvidenceBundle       `json:"evidence"`
	Narrative      *AnalysisNarrative    `json:"narrative"`
	Report         *ReportArtifact       `json:"report"`
	Timings        []StageTiming         `json:"timings"`
	StartedAt      time.Time             `json:"started_at"`
	CompletedAt    time.Time             `json:"completed_at"`
}

// UploadedFile is one raw input to the upload step.
type UploadedFile struct {
	Name    string `json:"name"`
	Content []byte `json:"-"`
}

// ExtractedText is what the text-extraction collaborator returns for one file.
type ExtractedText struct {
	Text       string `json:"text"`
	SourceType string `json:"source_type"`
}

// UploadResult aggregates the upload step. Per-file extraction failures are
// reported here without aborting the whole upload.
type UploadResult struct {
	CombinedText string            `json:"combined_text"`
	FileRefs     []string          `json:"file_refs,omitempty"`
	FileErrors   map[string]string `json:"file_errors,omitempty"`
}
