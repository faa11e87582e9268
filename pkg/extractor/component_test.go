package extractor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/extractinator/pkg/ir"
	"github.com/gnana997/extractinator/pkg/svelte"
)

func extractComponent(t *testing.T, x *Extractor, path, src string) (*ir.ComponentFile, []ir.Diagnostic) {
	t.Helper()
	res := x.Extract(path, []byte(src))
	require.NoError(t, res.Err)
	cf, ok := res.File.(*ir.ComponentFile)
	require.True(t, ok, "expected a component, got %T", res.File)
	return cf, res.Diagnostics
}

func bitTypes(bits []ir.Bit) map[string]string {
	out := make(map[string]string, len(bits))
	for _, b := range bits {
		out[b.Name] = b.Type
	}
	return out
}

func TestExtractFile_Toggle(t *testing.T) {
	x := setupExtractor(t, DefaultOptions())

	res := x.ExtractFile(filepath.Join("testdata", "Toggle.svelte"))
	require.NoError(t, res.Err)
	assert.Empty(t, res.Diagnostics)

	cf, ok := res.File.(*ir.ComponentFile)
	require.True(t, ok)
	assert.Equal(t, "Toggle", cf.ComponentName)
	assert.Nil(t, cf.Comment)

	require.Len(t, cf.Props, 1)
	assert.Equal(t, "open", cf.Props[0].Name)
	assert.Equal(t, "boolean", cf.Props[0].Type)
	require.NotNil(t, cf.Props[0].Comment)
	assert.Equal(t, "Whether the panel is open.", cf.Props[0].Comment.Summary)

	require.Len(t, cf.Slots, 2)
	assert.Equal(t, "header", cf.Slots[0].Name)
	assert.Empty(t, cf.Slots[0].Props)
	assert.NotNil(t, cf.Slots[0].Props)
	assert.Equal(t, "default", cf.Slots[1].Name)

	assert.Empty(t, cf.Events)
	assert.Empty(t, cf.Exports)
}

func TestExtractFile_Card(t *testing.T) {
	x := setupExtractor(t, DefaultOptions())

	res := x.ExtractFile(filepath.Join("testdata", "Card.svelte"))
	require.NoError(t, res.Err)
	assert.Empty(t, res.Diagnostics)

	cf := res.File.(*ir.ComponentFile)
	require.NotNil(t, cf.Comment)
	assert.Equal(t, "A card.", cf.Comment.Summary)

	assert.Equal(t, map[string]string{"title": "string", "count": "number"}, bitTypes(cf.Props))
	assert.Equal(t, "title", cf.Props[0].Name)
	require.NotNil(t, cf.Props[0].Comment)
	assert.Equal(t, "Card title.", cf.Props[0].Comment.Summary)

	require.Len(t, cf.Events, 3)
	assert.Equal(t, ir.Bit{Name: "select", Type: "CustomEvent<number>"}, cf.Events[0])
	assert.Equal(t, "close", cf.Events[1].Name)
	assert.Equal(t, "CustomEvent<any>", cf.Events[1].Type)
	require.NotNil(t, cf.Events[1].Comment)
	assert.Equal(t, "Fired on close.", cf.Events[1].Comment.Summary)
	assert.Equal(t, ir.Bit{Name: "click", Type: `HTMLElementEventMap["click"]`}, cf.Events[2])

	require.Len(t, cf.Slots, 2)
	title, ok := cf.Slot("title")
	require.True(t, ok)
	require.NotNil(t, title.Comment)
	assert.Equal(t, "Title area.", title.Comment.Summary)
	assert.Equal(t, []ir.Bit{{Name: "title", Type: "string"}, {Name: "size", Type: "number"}}, title.Props)

	require.Len(t, cf.Exports, 1)
	assert.Equal(t, "sizes", cf.Exports[0].Name)
	assert.Equal(t, "string[]", cf.Exports[0].Type)
	require.NotNil(t, cf.Exports[0].Comment)
	assert.Equal(t, "Card sizes.", cf.Exports[0].Comment.Summary)
}

func TestExtract_DuplicateProp(t *testing.T) {
	x := setupExtractor(t, DefaultOptions())
	src := `<script>
  export let count = 0;
  export let count = 1;
</script>
`
	cf, diags := extractComponent(t, x, "/virtual/Counter.svelte", src)
	require.Len(t, cf.Props, 2)

	require.Len(t, diags, 1)
	assert.Equal(t, ir.DuplicateName, diags[0].Kind)
	assert.Equal(t, "count", diags[0].Name)
	assert.Equal(t, ir.Position{Line: 3, Column: 14}, diags[0].Position)
	assert.Equal(t, []ir.Position{{Line: 2, Column: 14}}, diags[0].Related)

	dups := ir.Duplicates(cf)
	assert.Equal(t, []string{"count"}, dups["props"])
}

func TestExtract_DeclaredTypes(t *testing.T) {
	x := setupExtractor(t, DefaultOptions())
	src := `<script lang="ts">
  interface $$Props {
    /** Label text. */
    label: string;
    disabled?: boolean;
  }
  interface $$Events {
    change: CustomEvent<string>;
  }
  interface $$Slots {
    default: { item: string; index: number };
    empty: {};
  }
  export let label = 'x';
</script>

<slot item={label} />
`
	cf, diags := extractComponent(t, x, "/virtual/Field.svelte", src)
	assert.Empty(t, diags)

	require.Len(t, cf.Props, 2)
	assert.Equal(t, "label", cf.Props[0].Name)
	assert.Equal(t, "string", cf.Props[0].Type)
	require.NotNil(t, cf.Props[0].Comment)
	assert.Equal(t, "Label text.", cf.Props[0].Comment.Summary)
	assert.Equal(t, ir.Bit{Name: "disabled", Type: "boolean"}, cf.Props[1])

	assert.Equal(t, []ir.Bit{{Name: "change", Type: "CustomEvent<string>"}}, cf.Events)

	require.Len(t, cf.Slots, 2)
	assert.Equal(t, "default", cf.Slots[0].Name)
	assert.Equal(t, []ir.Bit{{Name: "item", Type: "string"}, {Name: "index", Type: "number"}}, cf.Slots[0].Props)
	assert.Equal(t, "empty", cf.Slots[1].Name)
	assert.Empty(t, cf.Slots[1].Props)
}

func TestExtract_SlotProps(t *testing.T) {
	x := setupExtractor(t, DefaultOptions())
	src := `<script>
  export let items = [];
</script>

{#each items as item, i}
  <slot name="row" {item} index={i + 1} label="Row" selected let:x />
{/each}
<slot name="row" extra />
<slot name="more" {...$$restProps} />
`
	cf, diags := extractComponent(t, x, "/virtual/List.svelte", src)

	row, ok := cf.Slot("row")
	require.True(t, ok)
	assert.Equal(t, []string{"item", "index", "label", "selected", "extra"}, propNames(row.Props))
	types := bitTypes(row.Props)
	assert.Equal(t, "unknown", types["item"])
	assert.Equal(t, "string", types["label"])
	assert.Equal(t, "boolean", types["selected"])
	assert.Equal(t, "boolean", types["extra"])

	more, ok := cf.Slot("more")
	require.True(t, ok)
	assert.Empty(t, more.Props)

	_, hasDefault := cf.Slot("default")
	assert.False(t, hasDefault)

	assert.Len(t, ir.FilterDiagnostics(diags, ir.UnsupportedConstruct), 1)
	unresolved := ir.FilterDiagnostics(diags, ir.UnresolvedType)
	require.NotEmpty(t, unresolved)
	assert.Equal(t, "item", unresolved[0].Name)
}

func propNames(bits []ir.Bit) []string {
	var names []string
	for _, b := range bits {
		names = append(names, b.Name)
	}
	return names
}

func TestExtract_DefaultSlotPolicy(t *testing.T) {
	src := "<script>\n  export let a = 1;\n</script>\n<p>{a}</p>\n"

	x := setupExtractor(t, DefaultOptions())
	cf, _ := extractComponent(t, x, "/virtual/Plain.svelte", src)
	assert.Empty(t, cf.Slots)

	opts := DefaultOptions()
	opts.SynthesizeDefaultSlot = SlotAlways
	always := setupExtractor(t, opts)
	cf, _ = extractComponent(t, always, "/virtual/Plain.svelte", src)
	require.Len(t, cf.Slots, 1)
	assert.Equal(t, ir.SlotBit{Name: "default", Props: []ir.Bit{}}, cf.Slots[0])
}

func TestExtract_ComponentWithoutScript(t *testing.T) {
	x := setupExtractor(t, DefaultOptions())
	src := `<!-- @component Plain markup. -->
<svelte:window on:resize />
<Child on:select />
<input on:input on:focus={() => {}} />
`
	cf, diags := extractComponent(t, x, "/virtual/Markup.svelte", src)
	assert.Empty(t, diags)

	require.NotNil(t, cf.Comment)
	assert.Equal(t, "Plain markup.", cf.Comment.Summary)
	assert.Empty(t, cf.Props)
	assert.Equal(t, []ir.Bit{
		{Name: "resize", Type: `WindowEventMap["resize"]`},
		{Name: "select", Type: "CustomEvent<any>"},
		{Name: "input", Type: `HTMLElementEventMap["input"]`},
	}, cf.Events)
}

func TestExtract_ComponentUnsupported(t *testing.T) {
	x := setupExtractor(t, DefaultOptions())
	src := `<script context="module">
  export default 1;
  export const shared = true;
</script>
<script>
  export let a = 1;
</script>
<script>
  export let b = 2;
</script>
`
	cf, diags := extractComponent(t, x, "/virtual/Odd.svelte", src)
	assert.Equal(t, []string{"a"}, propNames(cf.Props))
	assert.Equal(t, []ir.Bit{{Name: "shared", Type: "true"}}, cf.Exports)

	unsupported := ir.FilterDiagnostics(diags, ir.UnsupportedConstruct)
	require.Len(t, unsupported, 2)
}

func TestExtract_ComponentFrontEndFailure(t *testing.T) {
	x := setupExtractor(t, DefaultOptions())
	src := "<p>hi</p>\n<script>\n  export let = ;\n</script>\n"

	res := x.Extract("/virtual/Broken.svelte", []byte(src))
	assert.ErrorIs(t, res.Err, ErrFrontEnd)
	assert.Nil(t, res.File)

	failures := ir.FilterDiagnostics(res.Diagnostics, ir.FrontEndFailure)
	require.Len(t, failures, 1)
	assert.Equal(t, 3, failures[0].Position.Line)
}

func TestForwardedType(t *testing.T) {
	cases := []struct {
		directive svelte.Directive
		want      string
	}{
		{svelte.Directive{Event: "click", Element: "button"}, `HTMLElementEventMap["click"]`},
		{svelte.Directive{Event: "keydown", Element: "svelte:window"}, `WindowEventMap["keydown"]`},
		{svelte.Directive{Event: "visibilitychange", Element: "svelte:document"}, `DocumentEventMap["visibilitychange"]`},
		{svelte.Directive{Event: "done", Element: "Child", Component: true}, "CustomEvent<any>"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, forwardedType(tc.directive), tc.directive.Element)
	}
}

func TestComponentName(t *testing.T) {
	assert.Equal(t, "Button", componentName("Button.svelte"))
	assert.Equal(t, "my.widget", componentName("my.widget.svelte"))
}
