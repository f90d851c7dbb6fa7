package pdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-core/internal/markdown"
)

const sampleReport = `# Case Analysis Report

**Case ID:** case-123

---

## Case Facts

The accused took money from the complainant on a **false promise**.

## Applicable Sections

| Act | Section | Title |
| --- | --- | --- |
| IPC | 420 | Cheating and dishonestly inducing delivery of property |
| BNS | 318 | Cheating |

## Evidence

- Dates: 15/01/2024
- Amounts: 75,000

## Conclusion

The facts support the mapped provisions.
`

func TestRenderer_Render(t *testing.T) {
	renderer := NewRenderer()

	out, err := renderer.Render(markdown.Parse(sampleReport))
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestRenderer_EmptyBlocks(t *testing.T) {
	renderer := NewRenderer()

	out, err := renderer.Render(nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestRenderer_LongTableWraps(t *testing.T) {
	renderer := NewRenderer()

	// A wide table with a long cell must wrap rather than fail.
	var b strings.Builder
	b.WriteString("| # | Element | Application to Facts | Satisfied |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for i := 0; i < 60; i++ {
		b.WriteString("| 1 | Deception | ")
		b.WriteString(strings.Repeat("a long application of the element to the facts ", 4))
		b.WriteString("| Partial |\n")
	}

	out, err := renderer.Render(markdown.Parse(b.String()))
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
