package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/extractinator/pkg/batch"
	"github.com/gnana997/extractinator/pkg/extractor"
	"github.com/gnana997/extractinator/pkg/ir"
	"github.com/gnana997/extractinator/pkg/util"
)

type extractOptions struct {
	outDir   string
	progress bool
	pretty   bool
}

func newExtractCmd(a *app) *cobra.Command {
	var opts extractOptions
	cmd := &cobra.Command{
		Use:   "extract [paths...]",
		Short: "Extract the documentation IR of files and directories",
		Long: `Extract writes a JSON array with one ParsedFile per extracted input to
stdout, or one <file>.json per input below --out-dir. Directories are walked
with the include/exclude patterns. Diagnostics go to stderr.

The command fails only when no input file could be extracted.

Example:
  extractinator extract src/lib
  extractinator extract --out-dir docs/ir --progress src`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd.Context(), args, opts)
		},
	}
	a.addExtractFlags(cmd)
	f := cmd.Flags()
	f.StringVarP(&opts.outDir, "out-dir", "o", "", "write one JSON file per input into this directory")
	f.BoolVar(&opts.progress, "progress", false, "show a progress bar on stderr")
	f.BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	return cmd
}

func (a *app) runExtract(ctx context.Context, args []string, opts extractOptions) error {
	s, err := a.settings()
	if err != nil {
		return err
	}
	logger := a.logger(s)

	if len(args) == 0 {
		args = []string{"."}
	}
	paths, err := expandPaths(args, s.Discover)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	x, closeExtractor := newExtractor(s, logger)
	defer closeExtractor()

	sources := util.NewSourceCache(&util.SourceCacheConfig{MaxOpenFiles: 1024, Logger: logger})
	defer sources.Close()

	var bar *progressReporter
	if opts.progress {
		bar = newProgressReporter(a.stderr, len(paths))
	}

	results, summary := batch.ExtractAll(ctx, x, paths, batch.Options{
		Workers:  s.Workers,
		Sources:  sources,
		Progress: bar.callback(),
		Logger:   logger,
	})
	bar.finish()

	if err := a.writeResults(paths, results, opts); err != nil {
		return err
	}
	printDiagnostics(a.stderr, paths, results)
	printSummary(a.stderr, summary)

	if err := ctx.Err(); err != nil {
		return err
	}
	if summary.AllFailed() {
		return errAllFailed
	}
	return nil
}

// expandPaths resolves file and directory arguments into a sorted,
// de-duplicated list of files. Directories are walked with cfg; files
// are taken as given.
func expandPaths(args []string, cfg batch.DiscoverConfig) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return nil, err
			}
			add(abs)
			continue
		}
		files, err := batch.DiscoverFiles(arg, cfg)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (a *app) writeResults(paths []string, results []extractor.Result, opts extractOptions) error {
	if opts.outDir == "" {
		files := make([]ir.ParsedFile, 0, len(results))
		for _, r := range results {
			if r.File != nil {
				files = append(files, r.File)
			}
		}
		return encodeJSON(a.stdout, files, opts.pretty)
	}

	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for i, r := range results {
		if r.File == nil {
			continue
		}
		target := filepath.Join(opts.outDir, outputName(paths[i]))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(target)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		err = encodeJSON(f, r.File, opts.pretty)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
	}
	return nil
}

// outputName maps a source path to its output file name: the path
// relative to the working directory plus ".json", or the base name for
// files outside it.
func outputName(path string) string {
	name := filepath.Base(path)
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
			name = rel
		}
	}
	return name + ".json"
}

func encodeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// printDiagnostics writes one line per failed file and per diagnostic.
func printDiagnostics(w io.Writer, paths []string, results []extractor.Result) {
	for i, r := range results {
		if r.Err != nil && len(r.Diagnostics) == 0 {
			fmt.Fprintf(w, "%s: %v\n", paths[i], r.Err)
		}
		for _, d := range r.Diagnostics {
			fmt.Fprintln(w, d.String())
		}
	}
}

func printSummary(w io.Writer, s batch.Summary) {
	kinds := make([]string, 0, len(s.Diagnostics))
	total := 0
	for k, n := range s.Diagnostics {
		kinds = append(kinds, fmt.Sprintf("%s=%d", k, n))
		total += n
	}
	sort.Strings(kinds)

	fmt.Fprintf(w, "extracted %d/%d files (%d failed, %d diagnostics) in %s\n",
		s.Extracted, s.Files, s.Failed, total, util.FormatDuration(s.Took))
	if len(kinds) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(kinds, " "))
	}
}
