package normalisers

import (
	"regexp"
	"strings"
	"unicode"
)

// Source types produced by the text extraction step.
const (
	SourcePlain    = "plain"
	SourceMarkdown = "markdown"
	SourceScanned  = "scanned"
)

// WhitespaceNormaliser applies generic whitespace cleanup to any source.
type WhitespaceNormaliser struct{}

func (n *WhitespaceNormaliser) Normalise(content string, sourceType string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	// Collapse runs of spaces and tabs within a line.
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	content = strings.Join(lines, "\n")

	// Remove excessive blank lines (more than 2 consecutive)
	for strings.Contains(content, "\n\n\n") {
		content = strings.ReplaceAll(content, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(content)
}

func (n *WhitespaceNormaliser) SupportedTypes() []string {
	return []string{"*"}
}

func (n *WhitespaceNormaliser) Priority() int {
	return 10 // Generic cleanup runs last
}

// ControlCharNormaliser strips non-printing control characters that confuse
// downstream embedding and pattern matching.
type ControlCharNormaliser struct{}

func (n *ControlCharNormaliser) Normalise(content string, sourceType string) string {
	var result strings.Builder
	result.Grow(len(content))

	for _, r := range content {
		if r == '\n' || r == '\t' {
			result.WriteRune(r)
			continue
		}
		// The byte order mark and zero-width space also go.
		if unicode.IsControl(r) || r == '\uFEFF' || r == '\u200B' {
			continue
		}
		result.WriteRune(r)
	}

	return result.String()
}

func (n *ControlCharNormaliser) SupportedTypes() []string {
	return []string{"*"}
}

func (n *ControlCharNormaliser) Priority() int {
	return 20
}

// MarkdownNormaliser strips structural markers from markdown sources so the
// classifier sees prose, not syntax.
type MarkdownNormaliser struct{}

var (
	mdHeadingPrefix = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdBulletPrefix  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	mdEmphasis      = regexp.MustCompile(`(\*\*|__|\*|_)([^*_]+)(\*\*|__|\*|_)`)
	mdLink          = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
)

func (n *MarkdownNormaliser) Normalise(content string, sourceType string) string {
	content = mdHeadingPrefix.ReplaceAllString(content, "")
	content = mdBulletPrefix.ReplaceAllString(content, "")
	content = mdEmphasis.ReplaceAllString(content, "$2")
	content = mdLink.ReplaceAllString(content, "$1")
	content = strings.ReplaceAll(content, "`", "")
	return content
}

func (n *MarkdownNormaliser) SupportedTypes() []string {
	return []string{SourceMarkdown}
}

func (n *MarkdownNormaliser) Priority() int {
	return 50 // Format-specific
}

// ScanArtifactNormaliser repairs artifacts of OCR'd or scanned documents:
// end-of-line hyphenation, page markers and stray single line breaks inside
// paragraphs.
type ScanArtifactNormaliser struct{}

var (
	scanHyphenBreak = regexp.MustCompile(`(\pL)-\n(\pL)`)
	scanPageMarker  = regexp.MustCompile(`(?mi)^\s*(?:page\s+\d+(?:\s+of\s+\d+)?|-\s*\d+\s*-|\d{1,4})\s*$`)
	scanLineWrap    = regexp.MustCompile(`([^\n])\n([^\n])`)
)

func (n *ScanArtifactNormaliser) Normalise(content string, sourceType string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	// Join words hyphenated across a line break.
	content = scanHyphenBreak.ReplaceAllString(content, "$1$2")

	// Drop page-number and page-marker lines.
	content = scanPageMarker.ReplaceAllString(content, "")

	// A single line break inside a paragraph is a wrap artifact; paragraph
	// boundaries stay as double breaks.
	content = scanLineWrap.ReplaceAllString(content, "$1 $2")

	return content
}

func (n *ScanArtifactNormaliser) SupportedTypes() []string {
	return []string{SourceScanned}
}

func (n *ScanArtifactNormaliser) Priority() int {
	return 60 // Format-specific, runs before generic cleanup
}
