package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/extractinator/pkg/extractor"
	"github.com/gnana997/extractinator/pkg/ir"
)

const maxWidth = 80

func newInspectCmd(a *app) *cobra.Command {
	var showExamples bool
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print a human-readable summary of one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings()
			if err != nil {
				return err
			}
			x, closeExtractor := newExtractor(s, a.logger(s))
			defer closeExtractor()

			r := x.ExtractFile(args[0])
			if r.Err != nil {
				printDiagnostics(a.stderr, []string{args[0]}, []extractor.Result{r})
				return r.Err
			}
			printFileHuman(a.stdout, r.File, showExamples)
			if len(r.Diagnostics) > 0 {
				fmt.Fprintln(a.stdout)
				fmt.Fprintln(a.stdout, "Diagnostics")
				for _, d := range r.Diagnostics {
					fmt.Fprintf(a.stdout, "  %s:%s  %s: %s\n", d.Kind, d.Position, d.Name, d.Message)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showExamples, "examples", false, "include @example sections")
	a.addExtractFlags(cmd)
	return cmd
}

// printFileHuman prints a human-readable file summary to w.
func printFileHuman(w io.Writer, f ir.ParsedFile, showExamples bool) {
	info := f.Info()
	ir.Match(f,
		func(m *ir.ModuleFile) struct{} {
			fmt.Fprintf(w, "%s  [%s]\n", info.FileName, ir.KindModule)
			fmt.Fprintln(w)
			printBitsSection(w, "Exports", exportRows(m.Exports))
			return struct{}{}
		},
		func(c *ir.ComponentFile) struct{} {
			fmt.Fprintf(w, "%s  [%s]\n", c.ComponentName, ir.KindComponent)
			if c.Comment != nil && c.Comment.Summary != "" {
				fmt.Fprintln(w)
				printWrapped(w, c.Comment.Summary, 0, maxWidth)
			}
			fmt.Fprintln(w)
			printBitsSection(w, "Props", bitRows(c.Props))
			fmt.Fprintln(w)
			printBitsSection(w, "Events", bitRows(c.Events))
			fmt.Fprintln(w)
			printSlotsSection(w, c.Slots)
			if len(c.Exports) > 0 {
				fmt.Fprintln(w)
				printBitsSection(w, "Exports", bitRows(c.Exports))
			}
			return struct{}{}
		},
	)

	if showExamples {
		printExamples(w, f)
	}
}

// row is one line of a bits table.
type row struct {
	name, typ, flags string
	comment          *ir.Comment
}

func bitRows(bits []ir.Bit) []row {
	rows := make([]row, 0, len(bits))
	for _, b := range bits {
		rows = append(rows, row{name: b.Name, typ: b.Type, flags: modifierFlags(b.Comment), comment: b.Comment})
	}
	return rows
}

func exportRows(exports []ir.ExportBit) []row {
	rows := make([]row, 0, len(exports))
	for _, e := range exports {
		flags := modifierFlags(e.Comment)
		if e.IsDefaultExport {
			flags = strings.TrimSpace("[default] " + flags)
		}
		rows = append(rows, row{name: e.Name, typ: e.Type, flags: flags, comment: e.Comment})
	}
	return rows
}

func modifierFlags(c *ir.Comment) string {
	if c == nil {
		return ""
	}
	var flags []string
	for _, m := range c.Active() {
		flags = append(flags, "["+m+"]")
	}
	return strings.Join(flags, " ")
}

// printBitsSection renders a NAME/TYPE table with dynamic column widths.
func printBitsSection(w io.Writer, title string, rows []row) {
	if len(rows) == 0 {
		fmt.Fprintf(w, "%s  (none)\n", title)
		return
	}

	fmt.Fprintln(w, title)

	nameW := len("NAME")
	typeW := len("TYPE")
	for _, r := range rows {
		nameW = max(nameW, len(r.name))
		typeW = max(typeW, min(len(r.typ), maxWidth/2))
	}

	fmt.Fprintf(w, "  %-*s  %-*s\n", nameW, "NAME", typeW, "TYPE")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", nameW+typeW+2))

	for _, r := range rows {
		line := fmt.Sprintf("  %-*s  %-*s", nameW, r.name, typeW, r.typ)
		if r.flags != "" {
			line += "  " + r.flags
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))

		if r.comment != nil && r.comment.Summary != "" {
			printWrapped(w, r.comment.Summary, nameW+4, maxWidth)
		}
		if r.comment != nil && r.comment.DefaultValue != "" {
			fmt.Fprintf(w, "  %s  default: %s\n", strings.Repeat(" ", nameW), r.comment.DefaultValue)
		}
	}
}

func printSlotsSection(w io.Writer, slots []ir.SlotBit) {
	if len(slots) == 0 {
		fmt.Fprintln(w, "Slots  (none)")
		return
	}
	fmt.Fprintln(w, "Slots")
	for _, s := range slots {
		fmt.Fprintf(w, "  %s\n", s.Name)
		if s.Comment != nil && s.Comment.Summary != "" {
			printWrapped(w, s.Comment.Summary, 4, maxWidth)
		}
		for _, p := range s.Props {
			fmt.Fprintf(w, "    let:%s  %s\n", p.Name, p.Type)
		}
	}
}

func printExamples(w io.Writer, f ir.ParsedFile) {
	elems := documentedElements(f)
	var found bool
	for _, d := range elems {
		for _, ex := range d.comment.Examples {
			if !found {
				fmt.Fprintln(w)
				fmt.Fprintln(w, "Examples")
				found = true
			}
			title := ex.Title
			if title == "" {
				title = ex.Name
			}
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  %s  %s\n", d.label, title)
			fmt.Fprintln(w, "  "+strings.Repeat("─", 40))
			for _, line := range strings.Split(ex.Content, "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
	if !found {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Examples  (none)")
	}
}

// printWrapped prints text word-wrapped at width with the given left indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	words := strings.Fields(text)
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range words {
		if len(line)+len(word)+1 > width && line != prefix {
			fmt.Fprintln(w, line)
			line = prefix + word
		} else {
			if line == prefix {
				line += word
			} else {
				line += " " + word
			}
		}
	}
	if line != prefix {
		fmt.Fprintln(w, line)
	}
}
