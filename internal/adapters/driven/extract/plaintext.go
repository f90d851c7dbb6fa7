// Package extract implements the text-extraction collaborator for uploaded
// files.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
	"github.com/custodia-labs/verdict-core/internal/core/ports/driven"
)

// Ensure PlainTextExtractor implements TextExtractor
var _ driven.TextExtractor = (*PlainTextExtractor)(nil)

// extensionSourceTypes maps supported file extensions to the source type the
// normalisers key on.
var extensionSourceTypes = map[string]string{
	".txt":      "plain",
	".text":     "plain",
	".md":       "markdown",
	".markdown": "markdown",
}

// PlainTextExtractor handles plain-text and markdown uploads. Binary formats
// are rejected with ErrUnsupportedFile.
type PlainTextExtractor struct{}

// NewPlainTextExtractor creates a plain-text extractor.
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

// Extract returns the text content and detected source type of a file.
func (e *PlainTextExtractor) Extract(ctx context.Context, file domain.UploadedFile) (*domain.ExtractedText, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sourceType, ok := extensionSourceTypes[extension(file.Name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, file.Name)
	}
	if !utf8.Valid(file.Content) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8 text", domain.ErrUnsupportedFile, file.Name)
	}

	return &domain.ExtractedText{
		Text:       string(file.Content),
		SourceType: sourceType,
	}, nil
}

// Supports reports whether the extractor can handle a filename.
func (e *PlainTextExtractor) Supports(filename string) bool {
	_, ok := extensionSourceTypes[extension(filename)]
	return ok
}

func extension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
