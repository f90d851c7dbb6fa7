package markdown

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_Headings(t *testing.T) {
	blocks := Parse("# Title\n## Section\n### Sub")
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	for i, level := range []int{1, 2, 3} {
		if blocks[i].Type != BlockHeading {
			t.Errorf("block %d: expected heading, got %s", i, blocks[i].Type)
		}
		if blocks[i].Level != level {
			t.Errorf("block %d: expected level %d, got %d", i, level, blocks[i].Level)
		}
	}
}

func TestParse_HashWithoutSpaceIsParagraph(t *testing.T) {
	blocks := Parse("#hashtag")
	if len(blocks) != 1 || blocks[0].Type != BlockParagraph {
		t.Fatalf("expected one paragraph, got %+v", blocks)
	}
}

func TestParse_TableWithDelimiterRow(t *testing.T) {
	text := "| Element | Satisfied |\n|---|---|\n| Deception | Yes |\n| Loss | Partial |\n\nAfter."
	blocks := Parse(text)

	if len(blocks) < 2 {
		t.Fatalf("expected table and paragraph, got %d blocks", len(blocks))
	}
	table := blocks[0]
	if table.Type != BlockTable {
		t.Fatalf("expected table block, got %s", table.Type)
	}
	// Delimiter row discarded: header + 2 data rows remain.
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Rows))
	}
	if got := PlainText(table.Rows[1][0]); got != "Deception" {
		t.Errorf("expected first data cell 'Deception', got %q", got)
	}
}

func TestParse_TableSecondRowWithContentIsKept(t *testing.T) {
	text := "| A | B |\n| 1 | 2 |\n| 3 | 4 |"
	blocks := Parse(text)
	if len(blocks) != 1 || blocks[0].Type != BlockTable {
		t.Fatalf("expected one table, got %+v", blocks)
	}
	if len(blocks[0].Rows) != 3 {
		t.Errorf("expected 3 rows (no delimiter row to drop), got %d", len(blocks[0].Rows))
	}
}

func TestParse_TableFlushedAtEndOfInput(t *testing.T) {
	blocks := Parse("| A | B |\n| 1 | 2 |")
	if len(blocks) != 1 || blocks[0].Type != BlockTable {
		t.Fatalf("expected trailing table to flush, got %+v", blocks)
	}
}

func TestParse_BulletsCoalesceIntoOneList(t *testing.T) {
	blocks := Parse("- one\n* two\n• three\n\ntext")
	if blocks[0].Type != BlockList {
		t.Fatalf("expected list block, got %s", blocks[0].Type)
	}
	if len(blocks[0].Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(blocks[0].Items))
	}
	if got := PlainText(blocks[0].Items[2]); got != "three" {
		t.Errorf("expected third item 'three', got %q", got)
	}
}

func TestParse_BlankCoalescing(t *testing.T) {
	blocks := Parse("para one\n\n\n\npara two")
	want := []BlockType{BlockParagraph, BlockBreak, BlockParagraph}
	var got []BlockType
	for _, b := range blocks {
		got = append(got, b.Type)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("block sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_NoBreakAroundHeadings(t *testing.T) {
	blocks := Parse("# Title\n\npara\n\n## Next")
	for _, b := range blocks {
		if b.Type == BlockBreak {
			t.Errorf("unexpected break adjacent to heading")
		}
	}
}

func TestParse_HorizontalRuleDiscarded(t *testing.T) {
	blocks := Parse("before\n---\nafter")
	if len(blocks) != 2 {
		t.Fatalf("expected rule to be discarded, got %d blocks", len(blocks))
	}
}

func TestParseSpans_PairedBold(t *testing.T) {
	spans := ParseSpans("plain **bold** tail")
	want := []Span{{Text: "plain "}, {Text: "bold", Bold: true}, {Text: " tail"}}
	if diff := cmp.Diff(want, spans); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSpans_UnclosedBoldStaysLiteral(t *testing.T) {
	spans := ParseSpans("**unclosed bold section")
	if len(spans) != 1 || spans[0].Bold {
		t.Fatalf("expected single literal span, got %+v", spans)
	}
	if spans[0].Text != "**unclosed bold section" {
		t.Errorf("unexpected literal text %q", spans[0].Text)
	}
}

func TestParse_UnclosedBoldDoesNotSwallowDocument(t *testing.T) {
	blocks := Parse("**unclosed bold section\n\nnext paragraph survives")
	if len(blocks) != 3 {
		t.Fatalf("expected para, break, para; got %d blocks", len(blocks))
	}
	if got := PlainText(blocks[2].Spans); got != "next paragraph survives" {
		t.Errorf("remainder corrupted: %q", got)
	}
}

func TestParseSpans_MultipleBoldRuns(t *testing.T) {
	spans := ParseSpans("**a** and **b**")
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %+v", spans)
	}
	if !spans[0].Bold || spans[1].Bold || !spans[2].Bold {
		t.Errorf("bold flags wrong: %+v", spans)
	}
}
