package mcp

import (
	"github.com/gnana997/extractinator/pkg/batch"
	"github.com/gnana997/extractinator/pkg/cache"
	"github.com/gnana997/extractinator/pkg/extractor"
	"github.com/gnana997/extractinator/pkg/highlight"
	"github.com/gnana997/extractinator/pkg/mcplog"
	"github.com/gnana997/extractinator/pkg/util"
	"github.com/mark3labs/mcp-go/server"
)

const serverVersion = "0.1.0-dev"

// Config carries the optional collaborators of a Server.
type Config struct {
	// Cache short-circuits re-extraction of unchanged files (optional)
	Cache *cache.Cache

	// Sources maps files for directory extraction (optional)
	Sources util.SourceCache

	// Discover filters extract_directory walks when the call gives no
	// patterns of its own
	Discover batch.DiscoverConfig

	// Workers bounds extract_directory concurrency (0 = auto)
	Workers int
}

// Server implements the MCP server for extractinator, exposing extraction
// and highlighting as tools.
type Server struct {
	mcpServer   *server.MCPServer
	extractor   *extractor.Extractor
	highlighter *highlight.Highlighter
	logger      *mcplog.Logger // nil disables tool-call logging
	config      Config
}

// NewServer creates a new MCP server backed by the given Extractor.
// A nil Highlighter uses the process-wide default renderer.
func NewServer(x *extractor.Extractor, h *highlight.Highlighter, logger *mcplog.Logger, config Config) *Server {
	if h == nil {
		h = highlight.Default()
	}
	if len(config.Discover.Include) == 0 && len(config.Discover.Exclude) == 0 {
		config.Discover = batch.DefaultDiscoverConfig()
	}
	s := &Server{extractor: x, highlighter: h, logger: logger, config: config}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer("extractinator", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: extractFileTool(), Handler: s.handleExtractFile},
		server.ServerTool{Tool: extractSourceTool(), Handler: s.handleExtractSource},
		server.ServerTool{Tool: extractDirectoryTool(), Handler: s.handleExtractDirectory},
		server.ServerTool{Tool: highlightTool(), Handler: s.handleHighlight},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
