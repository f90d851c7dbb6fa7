package driven

import "github.com/custodia-labs/verdict-core/internal/markdown"

// ReportRenderer renders compiled markdown blocks into a binary document.
type ReportRenderer interface {
	// Render produces the document bytes for the given block sequence.
	Render(blocks []markdown.Block) ([]byte, error)
}
