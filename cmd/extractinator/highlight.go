package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/extractinator/pkg/highlight"
	"github.com/gnana997/extractinator/pkg/ir"
)

// extLangs maps file extensions to highlight languages.
var extLangs = map[string]string{
	".svelte": "svelte",
	".ts":     "typescript",
	".mts":    "typescript",
	".cts":    "typescript",
	".tsx":    "tsx",
	".js":     "javascript",
	".mjs":    "javascript",
	".cjs":    "javascript",
	".jsx":    "jsx",
}

func newHighlightCmd(a *app) *cobra.Command {
	var examples bool
	cmd := &cobra.Command{
		Use:   "highlight <file>",
		Short: "Render a file, or the examples in its doc comments, as highlighted HTML",
		Long: `Highlight writes HTML to stdout. By default the whole file is rendered in
the language of its extension. With --examples the file is extracted and the
@example sections of every doc comment are rendered instead, each fenced
block in its own language.

Lines ending in // [!code highlight], [!code focus], [!code ++] or
[!code --] are marked and the notation is removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHighlight(args[0], examples)
		},
	}
	f := cmd.Flags()
	f.StringVar(&a.flags.lang, "lang", "", "language (default: from the file extension)")
	f.StringVar(&a.flags.theme, "theme", "", "theme (default: "+highlight.DefaultTheme+")")
	f.BoolVar(&examples, "examples", false, "render the @example sections of extracted comments")
	a.addExtractFlags(cmd)
	return cmd
}

func (a *app) runHighlight(path string, examples bool) error {
	s, err := a.settings()
	if err != nil {
		return err
	}
	logger := a.logger(s)
	h := highlight.New(logger)

	if !examples {
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		opts := s.Highlight
		if opts.Lang == "" {
			opts.Lang = extLangs[strings.ToLower(filepath.Ext(path))]
		}
		html, err := h.Render(string(source), opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, html)
		return nil
	}

	x, closeExtractor := newExtractor(s, logger)
	defer closeExtractor()

	r := x.ExtractFile(path)
	if r.Err != nil {
		return r.Err
	}
	for _, d := range r.Diagnostics {
		fmt.Fprintln(a.stderr, d.String())
	}
	writeExampleBlocks(a.stdout, h, r.File, s.Highlight)
	return nil
}

// documented is one element of a file with a doc comment.
type documented struct {
	label   string
	comment *ir.Comment
}

// documentedElements lists the comments of f in serialization order.
func documentedElements(f ir.ParsedFile) []documented {
	var out []documented
	add := func(collection string, e ir.Element) {
		if c := e.DocComment(); c != nil {
			out = append(out, documented{label: collection + " " + e.ElementName(), comment: c})
		}
	}

	ir.Match(f,
		func(m *ir.ModuleFile) struct{} {
			for _, e := range m.Exports {
				add("export", e)
			}
			return struct{}{}
		},
		func(c *ir.ComponentFile) struct{} {
			if c.Comment != nil {
				out = append(out, documented{label: "component " + c.ComponentName, comment: c.Comment})
			}
			for _, e := range c.Props {
				add("prop", e)
			}
			for _, e := range c.Events {
				add("event", e)
			}
			for _, e := range c.Slots {
				add("slot", e)
			}
			for _, e := range c.Exports {
				add("export", e)
			}
			return struct{}{}
		},
	)
	return out
}

func writeExampleBlocks(w io.Writer, h *highlight.Highlighter, f ir.ParsedFile, opts highlight.Options) {
	for _, d := range documentedElements(f) {
		for _, block := range h.HighlightComment(d.comment, opts) {
			fmt.Fprintf(w, "<!-- %s (%s) -->\n%s\n", d.label, block.Lang, block.HTML)
		}
	}
}
