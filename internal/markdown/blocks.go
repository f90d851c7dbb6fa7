// Package markdown parses the semi-structured markdown produced by the
// reasoning stage into typed blocks for report rendering.
//
// The parser is a single left-to-right pass over lines driven by an explicit
// block accumulator: the current block type plus a line buffer. Contiguous
// table rows and bullets are buffered and flushed as one block when a line of
// a different kind arrives or at end of input.
package markdown

import (
	"strings"
)

// BlockType identifies a compiled block.
type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockParagraph BlockType = "paragraph"
	BlockList      BlockType = "list"
	BlockTable     BlockType = "table"
	// BlockBreak is a coalesced blank-line break. At most one break is ever
	// emitted between two non-heading blocks.
	BlockBreak BlockType = "break"
)

// Span is a run of text with inline styling.
type Span struct {
	Text string
	Bold bool
}

// Block is one compiled markdown block.
type Block struct {
	Type  BlockType
	Level int      // heading level, 1-based
	Spans []Span   // heading and paragraph content
	Items [][]Span // list items
	Rows  [][]Cell // table rows, delimiter row removed
}

// Cell is one table cell.
type Cell []Span

// parser accumulates blocks over one pass.
type parser struct {
	blocks       []Block
	tableBuf     []string
	listBuf      [][]Span
	pendingBreak bool
}

// Parse compiles markdown text into a block list.
func Parse(text string) []Block {
	p := &parser{}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if isTableRow(line) {
			p.flushList()
			p.tableBuf = append(p.tableBuf, line)
			continue
		}
		p.flushTable()

		switch {
		case line == "":
			p.flushList()
			p.pendingBreak = true

		case isHorizontalRule(line):
			p.flushList()

		case strings.HasPrefix(line, "#"):
			p.flushList()
			level, rest := splitHeading(line)
			if level == 0 {
				p.emit(Block{Type: BlockParagraph, Spans: ParseSpans(line)})
				continue
			}
			p.emit(Block{Type: BlockHeading, Level: level, Spans: ParseSpans(rest)})

		case isBullet(line):
			p.listBuf = append(p.listBuf, ParseSpans(bulletText(line)))

		default:
			p.flushList()
			p.emit(Block{Type: BlockParagraph, Spans: ParseSpans(line)})
		}
	}

	p.flushTable()
	p.flushList()
	return p.blocks
}

// emit appends a block, materialising at most one pending break between two
// non-heading blocks.
func (p *parser) emit(b Block) {
	if p.pendingBreak {
		p.pendingBreak = false
		if len(p.blocks) > 0 && b.Type != BlockHeading &&
			p.blocks[len(p.blocks)-1].Type != BlockHeading {
			p.blocks = append(p.blocks, Block{Type: BlockBreak})
		}
	}
	p.blocks = append(p.blocks, b)
}

func (p *parser) flushList() {
	if len(p.listBuf) == 0 {
		return
	}
	items := p.listBuf
	p.listBuf = nil
	p.emit(Block{Type: BlockList, Items: items})
}

func (p *parser) flushTable() {
	if len(p.tableBuf) == 0 {
		return
	}
	rows := make([][]Cell, 0, len(p.tableBuf))
	for i, line := range p.tableBuf {
		// The second row is a delimiter row only when it consists solely of
		// dash, pipe and space characters.
		if i == 1 && isDelimiterRow(line) {
			continue
		}
		cells := splitTableRow(line)
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	p.tableBuf = nil
	if len(rows) > 0 {
		p.emit(Block{Type: BlockTable, Rows: rows})
	}
}

// ParseSpans converts inline bold markers into styled spans using a
// non-greedy paired-delimiter rule. An unmatched opening marker is kept as
// literal text and never corrupts the remainder of the line.
func ParseSpans(text string) []Span {
	var spans []Span
	plain := strings.Builder{}

	for len(text) > 0 {
		open := strings.Index(text, "**")
		if open < 0 {
			plain.WriteString(text)
			break
		}
		closing := strings.Index(text[open+2:], "**")
		if closing < 0 {
			// Unmatched opener: literal.
			plain.WriteString(text)
			break
		}
		plain.WriteString(text[:open])
		if plain.Len() > 0 {
			spans = append(spans, Span{Text: plain.String()})
			plain.Reset()
		}
		bold := text[open+2 : open+2+closing]
		if bold != "" {
			spans = append(spans, Span{Text: bold, Bold: true})
		}
		text = text[open+2+closing+2:]
	}

	if plain.Len() > 0 {
		spans = append(spans, Span{Text: plain.String()})
	}
	return spans
}

// PlainText flattens spans back to unstyled text.
func PlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

func isTableRow(line string) bool {
	return strings.HasPrefix(line, "|") && strings.Count(line, "|") >= 2
}

func isDelimiterRow(line string) bool {
	seen := false
	for _, r := range line {
		switch r {
		case '-':
			seen = true
		case '|', ' ':
		default:
			return false
		}
	}
	return seen
}

func splitTableRow(line string) []Cell {
	parts := strings.Split(line, "|")
	// Leading and trailing pipes produce empty edge fields.
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	cells := make([]Cell, 0, len(parts))
	for _, part := range parts {
		cells = append(cells, Cell(ParseSpans(strings.TrimSpace(part))))
	}
	return cells
}

func isHorizontalRule(line string) bool {
	if len(line) < 3 {
		return false
	}
	for _, r := range line {
		if r != '-' && r != '_' && r != '*' {
			return false
		}
	}
	// A line of asterisks alone is still a rule; mixed-only checks above.
	return true
}

func splitHeading(line string) (int, string) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, line
	}
	rest := line[level:]
	if rest != "" && !strings.HasPrefix(rest, " ") {
		return 0, line
	}
	return level, strings.TrimSpace(rest)
}

func isBullet(line string) bool {
	for _, prefix := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func bulletText(line string) string {
	if strings.HasPrefix(line, "• ") {
		return strings.TrimSpace(strings.TrimPrefix(line, "• "))
	}
	return strings.TrimSpace(line[2:])
}
