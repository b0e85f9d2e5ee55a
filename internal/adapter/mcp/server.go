// Package mcp exposes the assistant's business tools over the Model
// Context Protocol so external agents can call them directly.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/qorohq/qoro/internal/domain/user"
	"github.com/qorohq/qoro/internal/service"
)

// ServerConfig configures the MCP SSE server.
type ServerConfig struct {
	Addr    string
	Name    string
	Version string
	// ServiceActor is attached to every tool call. MCP clients are not
	// end users, so calls run under a dedicated service account scoped
	// to one organization.
	ServiceActor user.Actor
}

// Server serves the tool registry over SSE.
type Server struct {
	cfg       ServerConfig
	mcpServer *mcpserver.MCPServer
	sse       *mcpserver.SSEServer
	logger    *slog.Logger
}

// NewServer builds an MCP server exposing the given tools.
func NewServer(cfg ServerConfig, tools []service.Tool, logger *slog.Logger) *Server {
	s := &Server{
		cfg: cfg,
		mcpServer: mcpserver.NewMCPServer(cfg.Name, cfg.Version,
			mcpserver.WithToolCapabilities(false),
		),
		logger: logger,
	}
	s.registerTools(tools)
	s.sse = mcpserver.NewSSEServer(s.mcpServer)
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// Start serves SSE in a background goroutine.
func (s *Server) Start() error {
	go func() {
		s.logger.Info("mcp server listening", "addr", s.cfg.Addr)
		if err := s.sse.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("mcp server failed", "error", err)
		}
	}()
	return nil
}

// Stop shuts the SSE server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.sse.Shutdown(ctx)
}
