// Package pdf renders compiled markdown blocks into an A4 PDF document.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/custodia-labs/verdict-core/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-core/internal/markdown"
)

// Ensure Renderer implements ReportRenderer
var _ driven.ReportRenderer = (*Renderer)(nil)

const (
	pageMargin  = 72.0 // 1 inch
	bodySize    = 11.0
	lineHeight  = 15.0
	cellPadding = 3.0
	fontFamily  = "Helvetica"
)

// Heading sizes by level; deeper levels fall back to the body size.
var headingSizes = map[int]float64{
	1: 20,
	2: 16,
	3: 13,
}

// Renderer renders block sequences with a fixed A4 layout: one-inch margins,
// Helvetica throughout, tables drawn with full grids.
type Renderer struct{}

// NewRenderer creates a PDF renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the PDF bytes for the given block sequence.
func (r *Renderer) Render(blocks []markdown.Block) ([]byte, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.AddPage()

	tr := doc.UnicodeTranslatorFromDescriptor("")
	pageW, _ := doc.GetPageSize()
	usableW := pageW - 2*pageMargin

	for _, block := range blocks {
		switch block.Type {
		case markdown.BlockHeading:
			r.heading(doc, tr, block)
		case markdown.BlockParagraph:
			r.spans(doc, tr, block.Spans, bodySize)
			doc.Ln(lineHeight)
		case markdown.BlockList:
			for _, item := range block.Items {
				doc.SetFont(fontFamily, "", bodySize)
				// \x95 is the bullet glyph in the core font encoding.
				doc.Write(lineHeight, "\x95  ")
				r.spans(doc, tr, item, bodySize)
				doc.Ln(lineHeight)
			}
		case markdown.BlockTable:
			r.table(doc, tr, block.Rows, usableW)
		case markdown.BlockBreak:
			doc.Ln(lineHeight / 2)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) heading(doc *fpdf.Fpdf, tr func(string) string, block markdown.Block) {
	size, ok := headingSizes[block.Level]
	if !ok {
		size = bodySize
	}
	doc.Ln(size * 0.6)
	doc.SetFont(fontFamily, "B", size)
	doc.Write(size*1.3, tr(markdown.PlainText(block.Spans)))
	doc.Ln(size * 1.6)
}

// spans writes a styled run, toggling bold per span.
func (r *Renderer) spans(doc *fpdf.Fpdf, tr func(string) string, spans []markdown.Span, size float64) {
	for _, span := range spans {
		style := ""
		if span.Bold {
			style = "B"
		}
		doc.SetFont(fontFamily, style, size)
		doc.Write(lineHeight, tr(span.Text))
	}
}

// table draws a full-grid table with evenly divided columns. The first row is
// treated as the header. Rows never split across pages; a row that does not
// fit moves to the next page whole.
func (r *Renderer) table(doc *fpdf.Fpdf, tr func(string) string, rows [][]markdown.Cell, usableW float64) {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}
	colW := usableW / float64(cols)
	_, pageH := doc.GetPageSize()

	for rowIdx, row := range rows {
		style := ""
		if rowIdx == 0 {
			style = "B"
		}
		doc.SetFont(fontFamily, style, bodySize-1)

		// Row height is driven by the tallest wrapped cell.
		maxLines := 1
		texts := make([]string, cols)
		for i := 0; i < cols; i++ {
			if i < len(row) {
				texts[i] = tr(markdown.PlainText(row[i]))
			}
			lines := doc.SplitText(texts[i], colW-2*cellPadding)
			if len(lines) > maxLines {
				maxLines = len(lines)
			}
		}
		rowH := float64(maxLines)*(lineHeight-2) + 2*cellPadding

		if doc.GetY()+rowH > pageH-pageMargin {
			doc.AddPage()
			doc.SetFont(fontFamily, style, bodySize-1)
		}

		x0 := pageMargin
		y0 := doc.GetY()
		for i := 0; i < cols; i++ {
			x := x0 + float64(i)*colW
			doc.Rect(x, y0, colW, rowH, "D")
			doc.SetXY(x+cellPadding, y0+cellPadding)
			doc.MultiCell(colW-2*cellPadding, lineHeight-2, texts[i], "", "L", false)
		}
		doc.SetXY(x0, y0+rowH)
	}
	doc.Ln(lineHeight / 2)
}
