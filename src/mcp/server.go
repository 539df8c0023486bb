// Package mcp exposes the GitHub Actions operations as MCP tools over
// stdio. Handlers validate nothing themselves; the API client owns
// validation and error classification, and handlers only translate
// results and classified errors into tool output.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"flywheel-agent/src/github"
	"flywheel-agent/src/logger"
)

const serverVersion = "1.0.0"

// Server is the MCP server for flywheel.
type Server struct {
	mcpServer *server.MCPServer
	client    *github.Client
	log       logger.Logger
}

// NewServer creates a new MCP server around an API client. A nil logger
// silences lifecycle logging; handlers never write to stdout either way
// because stdio carries the protocol.
func NewServer(client *github.Client, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewSilentLogger()
	}

	s := server.NewMCPServer(
		"flywheel",
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	srv := &Server{
		mcpServer: s,
		client:    client,
		log:       log,
	}
	srv.registerTools()

	return srv
}

// Run starts the MCP server on stdio and blocks until the client
// disconnects.
func (s *Server) Run() error {
	s.log.Info("[MCP] Serving on stdio")
	return server.ServeStdio(s.mcpServer)
}
