package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/extractinator/pkg/batch"
	"github.com/gnana997/extractinator/pkg/ir"
)

// run executes the CLI in-process and returns stdout, stderr and the error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := &app{stdin: bytes.NewReader(nil), stdout: &stdout, stderr: &stderr}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

const cardSource = `<script lang="ts">
  /**
   * Card title.
   * @example
   * ` + "```svelte\n   * <Card title=\"Hi\" />\n   * ```" + `
   */
  export let title: string;
</script>

<h2>{title}</h2>
<slot />
`

var project = map[string]string{
	"src/index.ts":              "/** The version. */\nexport const version = '1.0';\n",
	"src/Card.svelte":           cardSource,
	"src/broken.ts":             "export const = ;\n",
	"node_modules/dep/index.js": "export const dep = 1;\n",
	"src/styles.css":            "h2 {}\n",
}

func decodeFiles(t *testing.T, out string) []ir.ParsedFile {
	t.Helper()
	var raw []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	files := make([]ir.ParsedFile, 0, len(raw))
	for _, r := range raw {
		f, err := ir.UnmarshalParsedFile(r)
		require.NoError(t, err)
		files = append(files, f)
	}
	return files
}

func TestExtract_Directory(t *testing.T) {
	root := writeProject(t, project)

	stdout, stderr, err := run(t, "extract", root)
	require.NoError(t, err, "one failed file must not fail the run")

	files := decodeFiles(t, stdout)
	require.Len(t, files, 2)
	assert.Equal(t, "Card.svelte", files[0].Info().FileName)
	assert.Equal(t, "index.ts", files[1].Info().FileName)

	card := files[0].(*ir.ComponentFile)
	require.Len(t, card.Props, 1)
	assert.Equal(t, "string", card.Props[0].Type)
	require.Len(t, card.Slots, 1)
	assert.Equal(t, ir.DefaultSlotName, card.Slots[0].Name)

	assert.Contains(t, stderr, "broken.ts")
	assert.Contains(t, stderr, "FrontEndFailure")
	assert.Contains(t, stderr, "extracted 2/3 files (1 failed")
}

func TestExtract_AllFailed(t *testing.T) {
	root := writeProject(t, map[string]string{"broken.ts": "export const = ;\n"})

	stdout, _, err := run(t, "extract", root)
	assert.ErrorIs(t, err, errAllFailed)
	assert.Equal(t, "[]\n", stdout)
}

func TestExtract_OutDir(t *testing.T) {
	root := writeProject(t, project)
	out := filepath.Join(t.TempDir(), "ir")

	stdout, _, err := run(t, "extract", "--out-dir", out, "--pretty", filepath.Join(root, "src", "index.ts"))
	require.NoError(t, err)
	assert.Empty(t, stdout)

	var written []string
	require.NoError(t, filepath.Walk(out, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			written = append(written, path)
		}
		return err
	}))
	require.Len(t, written, 1)
	assert.Equal(t, "index.ts.json", filepath.Base(written[0]))

	data, err := os.ReadFile(written[0])
	require.NoError(t, err)
	f, err := ir.UnmarshalParsedFile(data)
	require.NoError(t, err)
	m := f.(*ir.ModuleFile)
	require.Len(t, m.Exports, 1)
	assert.Equal(t, "version", m.Exports[0].Name)
	assert.Equal(t, `"1.0"`, m.Exports[0].Type)
	assert.Equal(t, "The version.", m.Exports[0].Comment.Summary)
}

func TestExtract_IncludeAndSlotPolicy(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/Plain.svelte": "<script>\n  export let a = 1;\n</script>\n<p>{a}</p>\n",
		"src/lib.ts":       "export const b = 2;\n",
	})

	stdout, _, err := run(t, "extract", "--include", "src/*.svelte", "--default-slot", "always", root)
	require.NoError(t, err)

	files := decodeFiles(t, stdout)
	require.Len(t, files, 1)
	plain := files[0].(*ir.ComponentFile)
	require.Len(t, plain.Slots, 1)
	assert.Equal(t, ir.DefaultSlotName, plain.Slots[0].Name)
}

func TestExtract_ConfigFile(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/Plain.svelte": "<script>\n  export let a = 1;\n</script>\n<p>{a}</p>\n",
	})
	cfg := filepath.Join(root, "extractinator.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("default_slot: always\n"), 0644))

	stdout, _, err := run(t, "extract", "--config", cfg, root)
	require.NoError(t, err)
	plain := decodeFiles(t, stdout)[0].(*ir.ComponentFile)
	assert.Len(t, plain.Slots, 1)

	// The flag overrides the file.
	stdout, _, err = run(t, "extract", "--config", cfg, "--default-slot", "when-rendered", root)
	require.NoError(t, err)
	plain = decodeFiles(t, stdout)[0].(*ir.ComponentFile)
	assert.Empty(t, plain.Slots)
}

func TestExtract_MissingPath(t *testing.T) {
	_, _, err := run(t, "extract", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestExpandPaths(t *testing.T) {
	root := writeProject(t, project)
	file := filepath.Join(root, "src", "index.ts")

	paths, err := expandPaths([]string{root, file}, batch.DefaultDiscoverConfig())
	require.NoError(t, err)
	assert.Len(t, paths, 3, "explicit files are not listed twice")
	for _, p := range paths {
		assert.True(t, filepath.IsAbs(p))
		assert.NotContains(t, p, "node_modules")
	}
}

func TestHighlight_File(t *testing.T) {
	root := writeProject(t, project)
	stdout, _, err := run(t, "highlight", filepath.Join(root, "src", "index.ts"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "<pre")
	assert.Contains(t, stdout, "version")
}

func TestHighlight_Examples(t *testing.T) {
	root := writeProject(t, project)
	stdout, _, err := run(t, "highlight", "--examples", filepath.Join(root, "src", "Card.svelte"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "<!-- prop title (svelte) -->")
	assert.Contains(t, stdout, "<pre")
}

func TestInspect(t *testing.T) {
	root := writeProject(t, project)
	stdout, _, err := run(t, "inspect", filepath.Join(root, "src", "Card.svelte"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Card  [component]")
	assert.Contains(t, stdout, "title")
	assert.Contains(t, stdout, "Card title.")
	assert.Contains(t, stdout, "Events  (none)")
	assert.Contains(t, stdout, "Slots\n  default")
}

func TestInspect_Examples(t *testing.T) {
	root := writeProject(t, project)
	stdout, _, err := run(t, "inspect", "--examples", filepath.Join(root, "src", "Card.svelte"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Examples")
	assert.Contains(t, stdout, `<Card title="Hi" />`)
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "extractinator "+Version)
}
