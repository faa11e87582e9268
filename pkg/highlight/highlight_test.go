package highlight

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/extractinator/pkg/ir"
	"github.com/gnana997/extractinator/pkg/util"
)

func TestDefault_Singleton(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]*Highlighter, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = Default()
		}(i)
	}
	wg.Wait()
	for _, h := range got {
		assert.Same(t, got[0], h)
	}
}

func TestHighlight_Defaults(t *testing.T) {
	h := New(util.NewDiscardLogger())
	out := h.Highlight("const a = 1", Options{Lang: "ts"})

	assert.Contains(t, out, "<pre")
	assert.Contains(t, out, "const")
	assert.Equal(t, []string{"serendipity"}, h.LoadedThemes())
}

func TestHighlight_Themes(t *testing.T) {
	h := New(util.NewDiscardLogger())

	h.Highlight("let x", Options{Lang: "javascript", Theme: "monokai"})
	h.Highlight("let y", Options{Lang: "javascript", Theme: "monokai"})
	assert.Equal(t, []string{"monokai", "serendipity"}, h.LoadedThemes())

	out := h.Highlight("let z", Options{Lang: "javascript", Theme: "no-such-theme"})
	assert.Contains(t, out, "<pre")
	assert.Equal(t, []string{"monokai", "serendipity"}, h.LoadedThemes())
}

func TestHighlight_UnknownLanguage(t *testing.T) {
	h := New(util.NewDiscardLogger())
	out, err := h.Render("plain words", Options{Lang: "no-such-lang"})
	require.NoError(t, err)
	assert.Contains(t, out, "plain words")
}

func TestNotations(t *testing.T) {
	src := strings.Join([]string{
		"const a = 1 // [!code highlight]",
		"const b = 2 // [!code ++]",
		"const c = 3 // [!code --]",
		"<p>hi</p> <!-- [!code focus] -->",
		"const d = 4",
	}, "\n")

	clean, marks := Notations(src)
	assert.Equal(t, "const a = 1\nconst b = 2\nconst c = 3\n<p>hi</p>\nconst d = 4", clean)
	assert.Equal(t, []Mark{
		{Line: 1, Kind: MarkHighlight},
		{Line: 2, Kind: MarkAdded},
		{Line: 3, Kind: MarkRemoved},
		{Line: 4, Kind: MarkFocus},
	}, marks)

	assert.Equal(t, [][2]int{{1, 4}}, lineRanges(marks))
}

func TestNotations_Count(t *testing.T) {
	clean, marks := Notations("a // [!code hl:2]\nb\nc")
	assert.Equal(t, "a\nb\nc", clean)
	assert.Equal(t, []Mark{{Line: 1, Kind: MarkHighlight}, {Line: 2, Kind: MarkHighlight}}, marks)
}

func TestNotations_CountOutOfRange(t *testing.T) {
	for _, count := range []string{"0", "99999999999999999999999"} {
		clean, marks := Notations("a // [!code focus:" + count + "]\nb")
		assert.Equal(t, "a\nb", clean, count)
		assert.Equal(t, []Mark{{Line: 1, Kind: MarkFocus}}, marks, count)
	}
}

func TestHighlight_RemovesNotation(t *testing.T) {
	h := New(util.NewDiscardLogger())
	out := h.Highlight("let a = 1 // [!code ++]", Options{Lang: "js"})
	assert.NotContains(t, out, "[!code")
}

func TestCodeBlocks(t *testing.T) {
	body := "Use it like this:\n\n```svelte\n<Button />\n```\n\nor\n\n```ts\nconst b = 1\n```\n"
	blocks := CodeBlocks(body, "svelte")
	require.Len(t, blocks, 2)
	assert.Equal(t, Block{Lang: "svelte", Code: "<Button />"}, blocks[0])
	assert.Equal(t, Block{Lang: "ts", Code: "const b = 1"}, blocks[1])

	plain := CodeBlocks("<Button />", "svelte")
	assert.Equal(t, []Block{{Lang: "svelte", Code: "<Button />"}}, plain)

	assert.Empty(t, CodeBlocks("  ", "svelte"))
}

func TestHighlightComment(t *testing.T) {
	h := New(util.NewDiscardLogger())
	c := &ir.Comment{Examples: []ir.Example{
		{Content: "```ts\nconst a = 1\n```"},
		{Content: "<Button />"},
	}}

	blocks := h.HighlightComment(c, Options{})
	require.Len(t, blocks, 2)
	assert.Equal(t, "ts", blocks[0].Lang)
	assert.Equal(t, "svelte", blocks[1].Lang)
	for _, b := range blocks {
		assert.Contains(t, b.HTML, "<pre")
	}
	assert.Nil(t, h.HighlightComment(nil, Options{}))
}
