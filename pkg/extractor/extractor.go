package extractor

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gnana997/extractinator/pkg/ir"
	"github.com/gnana997/extractinator/pkg/parser"
	"github.com/gnana997/extractinator/pkg/parser/queries"
	"github.com/gnana997/extractinator/pkg/util"
)

// Extractor turns module and component sources into ParsedFiles.
// It is safe for concurrent use; parsers come from the shared pools of
// the ParserManager.
type Extractor struct {
	parserManager *parser.ParserManager
	queryManager  *queries.QueryManager
	sources       util.SourceCache
	opts          Options
	logger        *slog.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(pm *parser.ParserManager, qm *queries.QueryManager, opts Options, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = util.NewDiscardLogger()
	}
	if opts.SynthesizeDefaultSlot == "" {
		opts.SynthesizeDefaultSlot = SlotWhenRendered
	}
	return &Extractor{
		parserManager: pm,
		queryManager:  qm,
		opts:          opts,
		logger:        logger,
	}
}

// UseSourceCache makes ExtractFile read through cache instead of
// reading files directly.
func (x *Extractor) UseSourceCache(cache util.SourceCache) {
	x.sources = cache
}

// Options returns the options the extractor was created with.
func (x *Extractor) Options() Options {
	return x.opts
}

// ExtractFile reads and extracts the file at filePath.
func (x *Extractor) ExtractFile(filePath string) Result {
	abs := absPath(filePath)

	if x.sources != nil {
		mf, err := x.sources.Acquire(abs)
		if err != nil {
			return ReadFailure(abs, err)
		}
		defer x.sources.Release(abs)
		return x.Extract(abs, mf.Bytes())
	}

	source, err := os.ReadFile(abs)
	if err != nil {
		return ReadFailure(abs, err)
	}
	return x.Extract(abs, source)
}

// Extract extracts the documentation IR from source. filePath decides the
// file kind by its extension; it does not need to exist.
//
// Extraction:
//  1. Classify the file as module or component
//  2. Parse each script with the matching grammar
//  3. Collect top-level bindings, then walk exports (and for components
//     the markup) into Bits
//  4. Report problems as diagnostics in source order of discovery
//
// The same input always yields the same Result.
func (x *Extractor) Extract(filePath string, source []byte) Result {
	start := time.Now()
	abs := absPath(filePath)

	kind, ok := parser.ClassifyFile(abs)
	if !ok {
		return Result{Err: fmt.Errorf("%w: %s", ErrUnsupportedFile, abs)}
	}

	f := &file{path: abs, lines: newLineIndex(source), opts: x.opts}
	info := ir.FileInfo{FileName: filepath.Base(abs), FilePath: abs}

	var (
		parsed ir.ParsedFile
		err    error
	)
	switch kind {
	case ir.KindModule:
		parsed, err = x.extractModule(f, info, source)
	default:
		parsed, err = x.extractComponent(f, info, source)
	}
	if err != nil {
		x.logger.Debug("extraction failed", "file", abs, "error", err)
		return Result{Diagnostics: f.diags, Err: err}
	}

	x.logger.Debug("extracted file",
		"file", abs,
		"kind", string(kind),
		"diagnostics", len(f.diags),
		"took", util.FormatDuration(time.Since(start)))

	return Result{File: parsed, Diagnostics: f.diags}
}

// parseScript parses src, located at base within the file. Trees with
// syntax errors are rejected unless AllowPartialTrees is set.
func (x *Extractor) parseScript(f *file, src []byte, base int, lang parser.Language, isTSX bool) (*script, error) {
	tree, err := x.parserManager.Parse(src, lang, isTSX)
	if err != nil {
		f.report(ir.FrontEndFailure, base, "", "%v", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrFrontEnd, f.path, err)
	}

	root := tree.RootNode()
	if root.HasError() && !f.opts.AllowPartialTrees {
		at, near := base, ""
		if bad := firstError(root); bad != nil {
			at = base + int(bad.StartByte())
			near = snippet(bad.Utf8Text(src))
		}
		d := f.report(ir.FrontEndFailure, at, "", "syntax error near %q", near)
		tree.Close()
		return nil, fmt.Errorf("%w: %s:%s: syntax error", ErrFrontEnd, f.path, d.Position)
	}

	return &script{src: src, base: base, lang: lang, isTSX: isTSX, tree: tree}, nil
}

func (x *Extractor) extractModule(f *file, info ir.FileInfo, source []byte) (*ir.ModuleFile, error) {
	s, err := x.parseScript(f, source, 0, parser.DetectLanguage(info.FilePath), parser.IsTSXFile(info.FilePath))
	if err != nil {
		return nil, err
	}
	defer s.tree.Close() // CRITICAL: trees hold C memory

	sc := x.newScope(f, s, nil)
	mf := &ir.ModuleFile{FileInfo: info, Exports: []ir.ExportBit{}}
	names := f.collection("export")
	defaultAt := -1

	for _, e := range sc.exports() {
		if e.isDefault {
			if defaultAt >= 0 {
				d := f.report(ir.DuplicateName, e.offset, e.name, "duplicate default export %q", e.name)
				d.Related = []ir.Position{f.lines.position(defaultAt)}
				continue
			}
			defaultAt = e.offset
		}
		names.admit(e.name, e.offset)
		mf.Exports = append(mf.Exports, ir.ExportBit{
			Bit:             sc.bit(e.name, e.decl),
			IsDefaultExport: e.isDefault,
		})
	}

	x.logger.Debug("module exports", "file", info.FilePath, "exports", len(mf.Exports))
	return mf, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func snippet(s string) string {
	s = normalizeSpace(s)
	if len(s) > 24 {
		return s[:24] + "..."
	}
	return s
}
