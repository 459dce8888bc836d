// Package mcpserver is the thin, non-core MCP adapter: it registers the
// five internal/tools operations as MCP tools and translates between
// mcp-go's map[string]interface{} argument shape and each tool's typed
// request. Nothing in internal/core, internal/tools, internal/jobs, or
// internal/retrieval imports this package, matching spec's
// transport-agnostic tool surface.
package mcpserver

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ctxcore/ctxcore/internal/core"
)

// Server wraps an mcp-go server registered with the five ctxcore tools
// against one wired core.Context.
type Server struct {
	ctx *core.Context
	mcp *server.MCPServer
}

// New builds a Server and registers every tool against ctxCtx.
func New(ctxCtx *core.Context) *Server {
	mcpServer := server.NewMCPServer(
		"ctxcore",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	addQueryContextTool(mcpServer, ctxCtx)
	addGetContextStatsTool(mcpServer, ctxCtx)
	addRefreshContextTool(mcpServer, ctxCtx)
	addRebuildContextTool(mcpServer, ctxCtx)
	addGetRebuildStatusTool(mcpServer, ctxCtx)

	return &Server{ctx: ctxCtx, mcp: mcpServer}
}

// Serve starts the MCP server on stdio and blocks until a shutdown
// signal arrives or the server errors.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting ctxcore MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("mcp server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("received shutdown signal, stopping gracefully...")
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the underlying core.Context.
func (s *Server) Close() error {
	return s.ctx.Close()
}
