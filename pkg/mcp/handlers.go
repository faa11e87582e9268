package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gnana997/extractinator/pkg/batch"
	"github.com/gnana997/extractinator/pkg/extractor"
	"github.com/gnana997/extractinator/pkg/highlight"
	"github.com/gnana997/extractinator/pkg/ir"
	"github.com/gnana997/extractinator/pkg/util"
	"github.com/mark3labs/mcp-go/mcp"
)

// fileResponse is the wire form of one extractor.Result.
type fileResponse struct {
	FilePath    string          `json:"filePath"`
	File        ir.ParsedFile   `json:"file,omitempty"`
	Diagnostics []ir.Diagnostic `json:"diagnostics"`
	Error       string          `json:"error,omitempty"`
}

type summaryResponse struct {
	Files       int                       `json:"files"`
	Extracted   int                       `json:"extracted"`
	Failed      int                       `json:"failed"`
	Diagnostics map[ir.DiagnosticKind]int `json:"diagnostics"`
	Took        string                    `json:"took"`
}

type directoryResponse struct {
	Root    string          `json:"root"`
	Summary summaryResponse `json:"summary"`
	Files   []fileResponse  `json:"files"`
}

type highlightResponse struct {
	Lang  string `json:"lang"`
	Theme string `json:"theme"`
	HTML  string `json:"html"`
}

func newFileResponse(path string, r extractor.Result, withFile bool) fileResponse {
	resp := fileResponse{FilePath: path, Diagnostics: r.Diagnostics}
	if resp.Diagnostics == nil {
		resp.Diagnostics = []ir.Diagnostic{}
	}
	if r.Err != nil {
		resp.Error = r.Err.Error()
	}
	if withFile && r.File != nil {
		resp.File = r.File
	}
	return resp
}

func (s *Server) extract(path string, source []byte) extractor.Result {
	if s.config.Cache != nil {
		return s.config.Cache.Extract(s.extractor, path, source)
	}
	return s.extractor.Extract(path, source)
}

func (s *Server) handleExtractFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path parameter is required"), nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid path: %v", err)), nil
	}

	var source []byte
	if s.config.Sources != nil {
		mf, err := s.config.Sources.Acquire(abs)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", abs, err)), nil
		}
		defer s.config.Sources.Release(abs)
		source = mf.Bytes()
	} else if source, err = os.ReadFile(abs); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", abs, err)), nil
	}

	r := s.extract(abs, source)
	if errors.Is(r.Err, extractor.ErrUnsupportedFile) {
		return mcp.NewToolResultError(r.Err.Error()), nil
	}
	return marshalToolResponse(newFileResponse(abs, r, true))
}

func (s *Server) handleExtractSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path parameter is required"), nil
	}
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError("source parameter is required"), nil
	}

	// In-memory sources bypass the cache: the path may not be unique
	// across callers.
	r := s.extractor.Extract(path, []byte(source))
	if errors.Is(r.Err, extractor.ErrUnsupportedFile) {
		return mcp.NewToolResultError(r.Err.Error()), nil
	}
	return marshalToolResponse(newFileResponse(r.Path(), r, true))
}

func (s *Server) handleExtractDirectory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := req.RequireString("root")
	if err != nil {
		return mcp.NewToolResultError("root parameter is required"), nil
	}
	info, err := os.Stat(root)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot access root: %v", err)), nil
	}
	if !info.IsDir() {
		return mcp.NewToolResultError(fmt.Sprintf("root is not a directory: %s", root)), nil
	}

	cfg := s.config.Discover
	if include := req.GetStringSlice("include", nil); len(include) > 0 {
		cfg.Include = include
	}
	if exclude := req.GetStringSlice("exclude", nil); len(exclude) > 0 {
		cfg.Exclude = exclude
	}
	summaryOnly := req.GetBool("summary_only", false)

	paths, err := batch.DiscoverFiles(root, cfg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results, summary := batch.ExtractAll(ctx, s.extractor, paths, batch.Options{
		Workers: s.config.Workers,
		Sources: s.config.Sources,
		Cache:   s.config.Cache,
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, _ := filepath.Abs(root)
	resp := directoryResponse{
		Root: abs,
		Summary: summaryResponse{
			Files:       summary.Files,
			Extracted:   summary.Extracted,
			Failed:      summary.Failed,
			Diagnostics: summary.Diagnostics,
			Took:        util.FormatDuration(summary.Took),
		},
		Files: make([]fileResponse, 0, len(results)),
	}
	for i, r := range results {
		resp.Files = append(resp.Files, newFileResponse(paths[i], r, !summaryOnly))
	}
	return marshalToolResponse(resp)
}

func (s *Server) handleHighlight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("code parameter is required"), nil
	}
	opts := highlight.Options{
		Lang:  req.GetString("lang", ""),
		Theme: req.GetString("theme", ""),
	}

	html, err := s.highlighter.Render(code, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("highlight failed: %v", err)), nil
	}

	resolved := opts.WithDefaults()
	return marshalToolResponse(highlightResponse{Lang: resolved.Lang, Theme: resolved.Theme, HTML: html})
}

// marshalToolResponse marshals a response to JSON text content.
func marshalToolResponse(response any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
