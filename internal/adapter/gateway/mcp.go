package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"search-mcp/internal/domain"
	"search-mcp/internal/infra/config"
)

const (
	serverName    = "search-mcp"
	serverVersion = "1.0.0"
)

// Server exposes registered tools over the Model Context Protocol.
// It supports two transports: stdio for direct client launch, and
// streamable HTTP for remote access.
type Server struct {
	mcp       *mcpserver.MCPServer
	tools     domain.ToolExecutor
	logger    *slog.Logger
	transport string
	addr      string
	httpSrv   *http.Server
	boundAddr string
	metrics   *Metrics
	startTime time.Time
}

// NewServer builds the MCP server and registers every tool from the executor.
func NewServer(tools domain.ToolExecutor, cfg config.ServerConfig, logger *slog.Logger) (*Server, error) {
	s := &Server{
		tools:     tools,
		logger:    logger,
		transport: cfg.Transport,
		addr:      cfg.Addr,
		metrics:   &Metrics{},
		startTime: time.Now(),
	}

	s.mcp = mcpserver.NewMCPServer(
		serverName,
		serverVersion,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
		mcpserver.WithInstructions("Use the search tool for web searches and the image_search tool for validated image searches."),
	)

	for _, t := range tools.List() {
		schema := t.Schema()
		mcpTool := mcp.NewToolWithRawSchema(schema.Name, schema.Description, schema.Parameters)
		s.mcp.AddTool(mcpTool, s.callHandler(t.Name()))
	}

	return s, nil
}

// callHandler adapts one registered tool into an MCP tool handler.
// Tool failures are reported in-band as error results, never as protocol faults.
func (s *Server) callHandler(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.metrics.ToolCallsTotal.Add(1)

		params, err := json.Marshal(req.GetArguments())
		if err != nil {
			s.metrics.ToolErrorsTotal.Add(1)
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		t, err := s.tools.Get(name)
		if err != nil {
			s.metrics.ToolErrorsTotal.Add(1)
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := t.Execute(ctx, params)
		if err != nil {
			s.metrics.ToolErrorsTotal.Add(1)
			s.logger.Error("tool execution failed", "tool", name, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		if result.IsError {
			s.metrics.ToolErrorsTotal.Add(1)
			return mcp.NewToolResultError(result.Content), nil
		}
		return mcp.NewToolResultText(result.Content), nil
	}
}

// Run serves MCP traffic on the configured transport. Blocks until the
// context is cancelled or the transport shuts down.
func (s *Server) Run(ctx context.Context) error {
	switch s.transport {
	case "stdio", "":
		return s.runStdio(ctx)
	case "http":
		return s.runHTTP(ctx)
	default:
		return fmt.Errorf("unknown transport %q", s.transport)
	}
}

func (s *Server) runStdio(ctx context.Context) error {
	s.logger.Info("mcp server starting", "transport", "stdio")
	stdio := mcpserver.NewStdioServer(s.mcp)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

func (s *Server) runHTTP(ctx context.Context) error {
	streamable := mcpserver.NewStreamableHTTPServer(s.mcp)

	mux := http.NewServeMux()
	mux.Handle("/mcp", streamable)
	mux.HandleFunc("/api/v1/status", statusHandler(s.tools, s.transport, s.startTime, s.metrics))
	mux.HandleFunc("/metrics", metricsHandler(s.tools, s.startTime, s.metrics))

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("mcp listen: %w", err)
	}
	s.boundAddr = listener.Addr().String()

	s.httpSrv = &http.Server{Handler: mux}

	s.logger.Info("mcp server starting", "transport", "http", "addr", s.boundAddr)

	go func() {
		<-ctx.Done()
		s.Stop(context.Background())
	}()

	if err := s.httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("mcp serve: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP transport. No-op for stdio, which
// stops when its context is cancelled.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
	return nil
}

// BoundAddr returns the actual address the HTTP transport bound to.
// Only valid after Run on the http transport.
func (s *Server) BoundAddr() string { return s.boundAddr }
