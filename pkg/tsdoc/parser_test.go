package tsdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/extractinator/pkg/ir"
)

// TestParse_SummaryAndParams tests the basic summary plus @param layout
func TestParse_SummaryAndParams(t *testing.T) {
	raw := "/**\n * Says hi.\n * @param name - who to greet\n */"

	c, issues := Parse(raw)
	require.NotNil(t, c)
	assert.Empty(t, issues)
	assert.Equal(t, "Says hi.", c.Summary)
	assert.Equal(t, []ir.Param{{Name: "name", Description: "who to greet"}}, c.Params)
	assert.Equal(t, raw, c.Raw)
}

// TestParse_SingleLine tests a one-line comment
func TestParse_SingleLine(t *testing.T) {
	c, issues := Parse("/** Says hi. */")
	assert.Empty(t, issues)
	assert.Equal(t, "Says hi.", c.Summary)
	assert.Equal(t, "/** Says hi. */", c.Raw)
}

// TestParse_CustomBlock tests that unknown tags are preserved
func TestParse_CustomBlock(t *testing.T) {
	c, issues := Parse("/** Does x.\n * @foo bar\n */")
	assert.Empty(t, issues)
	assert.Equal(t, "Does x.", c.Summary)
	assert.Equal(t, []ir.CustomBlock{{TagName: "foo", Content: "bar"}}, c.CustomBlocks)
}

// TestParse_Modifiers tests modifier tags on a shared line
func TestParse_Modifiers(t *testing.T) {
	c, issues := Parse("/**\n * Internal helper.\n * @internal @beta\n */")
	assert.Empty(t, issues)
	assert.Equal(t, "Internal helper.", c.Summary)
	assert.True(t, c.Internal)
	assert.True(t, c.Beta)
	assert.False(t, c.Alpha)
	assert.Empty(t, c.CustomBlocks)
}

// TestParse_Example tests example name, title and fenced content
func TestParse_Example(t *testing.T) {
	raw := "/**\n" +
		" * Adds.\n" +
		" * @example Basic - adding numbers\n" +
		" * ```ts\n" +
		" * add(1, 2)\n" +
		" * ```\n" +
		" * @returns the sum\n" +
		" */"

	c, issues := Parse(raw)
	assert.Empty(t, issues)
	require.Len(t, c.Examples, 1)
	assert.Equal(t, ir.Example{
		Content: "```ts\nadd(1, 2)\n```",
		Name:    "Basic",
		Title:   "adding numbers",
	}, c.Examples[0])
	assert.Equal(t, "the sum", c.Returns)
}

// TestParse_ExampleSingleLine tests that a lone example line is content
func TestParse_ExampleSingleLine(t *testing.T) {
	c, _ := Parse("/** @example add(1, 2) */")
	require.Len(t, c.Examples, 1)
	assert.Equal(t, "add(1, 2)", c.Examples[0].Content)
	assert.Empty(t, c.Examples[0].Title)
}

// TestParse_TypeParamsAndDefaults tests typed and optional param forms
func TestParse_TypeParamsAndDefaults(t *testing.T) {
	raw := "/**\n" +
		" * @typeParam T - item type\n" +
		" * @param {string} [label=\"x\"] - the label\n" +
		" * @defaultValue `false`\n" +
		" * @remarks Extra words.\n" +
		" * @see Other\n" +
		" * @note Careful.\n" +
		" */"

	c, issues := Parse(raw)
	assert.Empty(t, issues)
	assert.Empty(t, c.Summary)
	assert.Equal(t, []ir.Param{{Name: "T", Description: "item type"}}, c.TypeParams)
	assert.Equal(t, []ir.Param{{Name: "label", Description: "the label"}}, c.Params)
	assert.Equal(t, "`false`", c.DefaultValue)
	assert.Equal(t, "Extra words.", c.Remarks)
	assert.Equal(t, []string{"Other"}, c.SeeBlocks)
	assert.Equal(t, []string{"Careful."}, c.Notes)
}

// TestParse_Links tests inline link extraction in source order
func TestParse_Links(t *testing.T) {
	c, issues := Parse("/** See {@link Button | the button} and {@link Icon}.\n * @returns a {@linkcode Node} */")
	assert.Empty(t, issues)
	assert.Equal(t, "See {@link Button | the button} and {@link Icon}.", c.Summary)
	assert.Equal(t, []ir.Link{
		{Text: "the button", Target: "Button"},
		{Text: "Icon", Target: "Icon"},
		{Text: "Node", Target: "Node"},
	}, c.Links)
}

// TestParse_LinksInRemarksAndExamples tests that links are collected from every section
func TestParse_LinksInRemarksAndExamples(t *testing.T) {
	raw := "/**\n" +
		" * Top {@link A}.\n" +
		" * @remarks Uses {@link B | bee}.\n" +
		" * @example\n" +
		" * ```ts\n" +
		" * render({@linkcode C})\n" +
		" * ```\n" +
		" * @returns {@linkplain D the d}\n" +
		" */"

	c, issues := Parse(raw)
	assert.Empty(t, issues)
	assert.Equal(t, "Uses {@link B | bee}.", c.Remarks)
	require.Len(t, c.Examples, 1)
	assert.Contains(t, c.Examples[0].Content, "{@linkcode C}")
	assert.Equal(t, []ir.Link{
		{Text: "A", Target: "A"},
		{Text: "bee", Target: "B"},
		{Text: "C", Target: "C"},
		{Text: "the d", Target: "D"},
	}, c.Links)
}

// TestParse_UnterminatedLink tests degradation of a broken inline tag
func TestParse_UnterminatedLink(t *testing.T) {
	c, issues := Parse("/**\n * Broken {@link Foo\n * @param a - x\n */")
	require.Len(t, issues, 1)
	assert.Equal(t, "unterminated inline tag", issues[0].Message)
	assert.Empty(t, c.Summary)
	assert.Equal(t, "Broken {@link Foo", c.Remarks)
	assert.Equal(t, []ir.Param{{Name: "a", Description: "x"}}, c.Params)
}

// TestParse_MalformedParam tests a @param without a name
func TestParse_MalformedParam(t *testing.T) {
	c, issues := Parse("/** @param - nothing */")
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "missing a name")
	assert.Empty(t, c.Params)
	assert.Equal(t, "@param - nothing", c.Remarks)
}

// TestParse_MalformedTag tests a tag with invalid characters
func TestParse_MalformedTag(t *testing.T) {
	c, issues := Parse("/**\n * Text.\n * @foo!bar baz\n */")
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, "Text.", c.Summary)
	assert.Equal(t, "@foo!bar baz", c.Remarks)
	assert.Empty(t, c.CustomBlocks)
}

// TestParse_Unterminated tests that an unclosed comment keeps its body
func TestParse_Unterminated(t *testing.T) {
	c, issues := Parse("/** dangling")
	require.Len(t, issues, 1)
	assert.Equal(t, "unterminated comment", issues[0].Message)
	assert.Equal(t, "dangling", c.Remarks)
	assert.Equal(t, "/** dangling", c.Raw)
}

// TestParse_NotATag tests text that merely contains '@'
func TestParse_NotATag(t *testing.T) {
	c, _ := Parse("/** Contact me@example.com or use `@foo` */")
	assert.Equal(t, "Contact me@example.com or use `@foo`", c.Summary)
	assert.Empty(t, c.CustomBlocks)

	c, _ = Parse("/**\n * ```\n * @decorator\n * ```\n */")
	assert.Equal(t, "```\n@decorator\n```", c.Summary)
	assert.Empty(t, c.CustomBlocks)
}

// TestParse_UnterminatedFence tests that an unclosed fence does not swallow later tags
func TestParse_UnterminatedFence(t *testing.T) {
	raw := "/**\n * Sum.\n * @example\n * ```ts\n * add(1, 2)\n * @param a - first\n * @beta\n */"

	c, issues := Parse(raw)
	require.Len(t, issues, 1)
	assert.Equal(t, "unterminated code fence", issues[0].Message)
	assert.Equal(t, 3, issues[0].Line)

	assert.Equal(t, "Sum.", c.Summary)
	assert.Equal(t, []ir.Param{{Name: "a", Description: "first"}}, c.Params)
	assert.True(t, c.Beta)
	require.Len(t, c.Examples, 1)
	assert.Equal(t, "```ts\nadd(1, 2)", c.Examples[0].Content)
}

// TestParse_ClosedFenceBeforeUnclosed tests that balanced fences keep hiding tags
func TestParse_ClosedFenceBeforeUnclosed(t *testing.T) {
	raw := "/**\n * ```\n * @hidden\n * ```\n * ```\n * @param b - second\n */"

	c, issues := Parse(raw)
	require.Len(t, issues, 1)
	assert.Equal(t, 4, issues[0].Line)
	assert.Empty(t, c.CustomBlocks)
	assert.Equal(t, []ir.Param{{Name: "b", Description: "second"}}, c.Params)
}

// TestParseWith_ComponentMarker tests Svelte component comments
func TestParseWith_ComponentMarker(t *testing.T) {
	raw := "<!-- @component\n  A fancy button.\n  @beta\n-->"

	c, issues := ParseWith(raw, Options{Marker: "@component"})
	assert.Empty(t, issues)
	assert.Equal(t, "A fancy button.", c.Summary)
	assert.True(t, c.Beta)
	assert.Empty(t, c.CustomBlocks)
	assert.Equal(t, raw, c.Raw)
}

// TestParse_Deterministic tests that repeated parses agree
func TestParse_Deterministic(t *testing.T) {
	raw := "/**\n * A.\n * @param x - y\n * @example\n * a()\n * @custom z\n */"
	first, _ := Parse(raw)
	second, _ := Parse(raw)
	assert.Equal(t, first, second)
}
