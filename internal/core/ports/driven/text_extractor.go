package driven

import (
	"context"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
)

// TextExtractor turns an uploaded file into plain text. A per-file failure
// is reported to the caller without aborting the whole upload.
type TextExtractor interface {
	// Extract returns the text content and detected source type of a file
	Extract(ctx context.Context, file domain.UploadedFile) (*domain.ExtractedText, error)

	// Supports reports whether the extractor can handle a filename
	Supports(filename string) bool
}
