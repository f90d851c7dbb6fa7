package domain

import "time"

// GeneratedVia records which path produced an analysis narrative.
type GeneratedVia string

const (
	GeneratedViaExternal GeneratedVia = "external_reasoning"
	GeneratedViaFallback GeneratedVia = "fallback_template"
)

// AnalysisNarrative is the Reasoning Stage output. Once produced it is
// opaque text to everything except the Report Compiler.
type AnalysisNarrative struct {
	MarkdownText  string       `json:"markdown_text"`
	GeneratedVia  GeneratedVia `json:"generated_via"`
	GeneratedAt   time.Time    `json:"generated_at"`
	CorrelationID string       `json:"correlation_id,omitempty"`
}
