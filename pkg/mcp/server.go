// Package mcp exposes the converter over the Model Context Protocol so
// editor agents can convert units, inspect the task schedule, and query
// cycle diagnostics.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/composeport/pkg/convert"
	"github.com/gnana997/composeport/pkg/mcplog"
	"github.com/gnana997/composeport/pkg/project"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for composeport.
type Server struct {
	mcpServer *server.MCPServer
	converter *convert.Converter
	loader    *project.Loader
	scan      project.ScanConfig
	logger    *mcplog.Logger // nil disables tool-call logging
}

// NewServer creates a new MCP server backed by the given converter and
// loader. logger may be nil.
func NewServer(converter *convert.Converter, loader *project.Loader, logger *mcplog.Logger) *Server {
	s := &Server{
		converter: converter,
		loader:    loader,
		scan:      project.DefaultScanConfig(),
		logger:    logger,
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("composeport", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: convertUnitTool(), Handler: s.handleConvertUnit},
		server.ServerTool{Tool: convertProjectTool(), Handler: s.handleConvertProject},
		server.ServerTool{Tool: listTasksTool(), Handler: s.handleListTasks},
		server.ServerTool{Tool: getCyclesTool(), Handler: s.handleGetCycles},
		server.ServerTool{Tool: mapTypeTool(), Handler: s.handleMapType},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
