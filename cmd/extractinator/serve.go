package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/extractinator/pkg/cache"
	"github.com/gnana997/extractinator/pkg/highlight"
	mcpserver "github.com/gnana997/extractinator/pkg/mcp"
	"github.com/gnana997/extractinator/pkg/mcplog"
	"github.com/gnana997/extractinator/pkg/util"
)

func newServeCmd(a *app) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout exposing the
extract_file, extract_source, extract_directory and highlight tools.

Example:
  extractinator serve --tool-log .extractinator/mcp.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(logFile)
		},
	}
	a.addExtractFlags(cmd)
	f := cmd.Flags()
	f.IntVar(&a.flags.cacheSize, "cache-size", cache.DefaultSize, "number of extracted files kept in memory")
	f.StringVar(&logFile, "tool-log", "", "append one JSONL entry per tool call to this file")
	return cmd
}

func (a *app) runServe(logFile string) error {
	s, err := a.settings()
	if err != nil {
		return err
	}
	logger := a.logger(s)

	x, closeExtractor := newExtractor(s, logger)
	defer closeExtractor()

	results, err := cache.New(cache.Config{Size: s.CacheSize}, logger)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}

	sources := util.NewSourceCache(&util.SourceCacheConfig{MaxOpenFiles: 1024, Logger: logger})
	defer sources.Close()

	toolLog, err := mcplog.NewLogger(logFile)
	if err != nil {
		return err
	}
	if toolLog != nil {
		defer toolLog.Close()
	}

	srv := mcpserver.NewServer(x, highlight.New(logger), toolLog, mcpserver.Config{
		Cache:    results,
		Sources:  sources,
		Discover: s.Discover,
		Workers:  s.Workers,
	})
	logger.Info("serving MCP on stdio", "cache_size", s.CacheSize, "tool_log", logFile)
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
