package domain

import "time"

// ReportArtifact records the rendered report files for one case.
// Created once at the final stage and never updated in place; a re-run gets
// a fresh case id and a fresh directory.
type ReportArtifact struct {
	PDFPath       string    `json:"pdf_path"`
	MarkdownPath  string    `json:"markdown_path"`
	CaseDirectory string    `json:"case_directory"`
	GeneratedAt   time.Time `json:"generated_at"`
	SizeBytes     int64     `json:"size_bytes"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}
