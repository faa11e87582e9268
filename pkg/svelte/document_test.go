package svelte

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cardSource = `<!-- @component
  A card.
-->
<script context="module" lang="ts">
  export const VARIANTS = ['a', 'b'];
</script>

<script lang="ts">
  export let open = false;
  const x = a > b;
</script>

<div class="card" on:click>
  <!-- The header area -->
  <slot name="header" title={open ? 'Open' : "Closed"} />
  <Button on:click={() => open = !open} on:submit|preventDefault />
  <p>{count > 1 ? 'many' : 'one'}</p>
  <slot {open} label="Hi" disabled></slot>
</div>

<style>
  .card > div { color: red; }
</style>
`

// TestParse_Scripts tests the instance/module split and content offsets
func TestParse_Scripts(t *testing.T) {
	doc := Parse([]byte(cardSource))

	require.NotNil(t, doc.Module)
	assert.Equal(t, ContextModule, doc.Module.Context)
	assert.Equal(t, "ts", doc.Module.Lang)
	assert.Contains(t, string(doc.Module.Content), "export const VARIANTS")

	require.NotNil(t, doc.Instance)
	assert.Equal(t, ContextInstance, doc.Instance.Context)
	assert.Contains(t, string(doc.Instance.Content), "export let open = false;")

	tag := `<script lang="ts">`
	assert.Equal(t, strings.Index(cardSource, tag)+len(tag), doc.Instance.Offset)
	assert.Equal(t, strings.Index(cardSource, tag), doc.Instance.TagOffset)
	assert.Equal(t, string(doc.Instance.Content), cardSource[doc.Instance.Offset:doc.Instance.Offset+len(doc.Instance.Content)])
	assert.Empty(t, doc.Issues)
}

// TestParse_ComponentComment tests the leading @component comment
func TestParse_ComponentComment(t *testing.T) {
	doc := Parse([]byte(cardSource))

	require.NotNil(t, doc.ComponentComment)
	assert.Equal(t, 0, doc.ComponentComment.Offset)
	assert.Equal(t, "<!-- @component\n  A card.\n-->", doc.ComponentComment.Raw)
}

// TestParse_ComponentCommentAfterMarkup tests that a late comment is not the component comment
func TestParse_ComponentCommentAfterMarkup(t *testing.T) {
	doc := Parse([]byte("<div></div>\n<!-- @component late -->\n"))
	assert.Nil(t, doc.ComponentComment)

	doc = Parse([]byte("<script>let a = 1;</script>\n<!-- @component After the script -->\n<div/>"))
	require.NotNil(t, doc.ComponentComment)
	assert.Contains(t, doc.ComponentComment.Raw, "After the script")

	doc = Parse([]byte("<!-- @componentish -->"))
	assert.Nil(t, doc.ComponentComment)
}

// TestParse_Slots tests slot attributes and preceding comments
func TestParse_Slots(t *testing.T) {
	doc := Parse([]byte(cardSource))
	require.Len(t, doc.Slots, 2)

	header := doc.Slots[0]
	assert.Equal(t, "slot", header.Name)
	assert.True(t, header.SelfClosing)
	name, ok := header.Attr("name")
	require.True(t, ok)
	assert.Equal(t, Attribute{Name: "name", Value: "header", Quoted: true}, name)

	title, ok := header.Attr("title")
	require.True(t, ok)
	assert.True(t, title.Expression)
	assert.Equal(t, `open ? 'Open' : "Closed"`, title.Value)

	require.NotNil(t, header.Comment)
	assert.Equal(t, "<!-- The header area -->", header.Comment.Raw)
	assert.Equal(t, 0, header.Gap)

	unnamed := doc.Slots[1]
	assert.False(t, unnamed.SelfClosing)
	assert.Nil(t, unnamed.Comment)
	assert.Equal(t, []Attribute{
		{Name: "open", Value: "open", Shorthand: true, Expression: true},
		{Name: "label", Value: "Hi", Quoted: true},
		{Name: "disabled", Bare: true},
	}, unnamed.Attrs)
}

// TestParse_SlotCommentGap tests blank line counting
func TestParse_SlotCommentGap(t *testing.T) {
	doc := Parse([]byte("<div>\n<!-- about -->\n\n\n<slot/>\n</div>"))
	require.Len(t, doc.Slots, 1)
	require.NotNil(t, doc.Slots[0].Comment)
	assert.Equal(t, 2, doc.Slots[0].Gap)

	doc = Parse([]byte("<div><!-- about --><span/><slot/></div>"))
	require.Len(t, doc.Slots, 1)
	assert.Nil(t, doc.Slots[0].Comment)
}

// TestParse_Directives tests on: directives on DOM elements and components
func TestParse_Directives(t *testing.T) {
	doc := Parse([]byte(cardSource))
	require.Len(t, doc.Directives, 3)

	assert.Equal(t, Directive{Event: "click", Modifiers: []string{}, Element: "div", Offset: strings.Index(cardSource, "<div")}, doc.Directives[0])

	assert.Equal(t, "click", doc.Directives[1].Event)
	assert.True(t, doc.Directives[1].Component)
	assert.True(t, doc.Directives[1].HasHandler)

	assert.Equal(t, "submit", doc.Directives[2].Event)
	assert.Equal(t, []string{"preventDefault"}, doc.Directives[2].Modifiers)
	assert.Equal(t, "Button", doc.Directives[2].Element)
	assert.False(t, doc.Directives[2].HasHandler)
}

// TestParse_DuplicateScript tests that a second instance script is reported
func TestParse_DuplicateScript(t *testing.T) {
	doc := Parse([]byte("<script>let a;</script>\n<script>let b;</script>\n<script module>export const c = 1;</script>"))

	require.NotNil(t, doc.Instance)
	assert.Equal(t, "let a;", string(doc.Instance.Content))
	require.NotNil(t, doc.Module)
	assert.Equal(t, "export const c = 1;", string(doc.Module.Content))
	require.Len(t, doc.Issues, 1)
	assert.Contains(t, doc.Issues[0].Message, "duplicate instance script")
}

func TestElement_IsComponent(t *testing.T) {
	cases := map[string]bool{
		"div":              false,
		"Button":           true,
		"ui.Card":          true,
		"svelte:window":    false,
		"svelte:component": true,
		"svelte:self":      true,
	}
	for name, want := range cases {
		el := Element{Name: name}
		assert.Equal(t, want, el.IsComponent(), name)
	}
}

func TestMask_PreservesLength(t *testing.T) {
	src := []byte("<p title={a > b}>{`x ${y} }`}</p><script>if (a > b) {}</script>")
	masked := mask(src)
	require.Len(t, masked, len(src))
	assert.NotContains(t, string(masked[:strings.Index(string(src), "<script>")]), "a > b")
	assert.Contains(t, string(masked), "if (a > b) {}")
	assert.Equal(t, string(src), unmask(string(masked)))
}
