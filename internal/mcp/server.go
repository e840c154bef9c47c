package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/uloc/internal/config"
	"github.com/dshills/uloc/internal/scanner"
	"github.com/dshills/uloc/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "uloc"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	storage storage.Storage
	scanner *scanner.Scanner
	lock    ScanLock
}

// NewServer creates a new MCP server instance backed by the history
// database at dbPath. An empty dbPath selects the default location.
func NewServer(dbPath, version string) (*Server, error) {
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return newServer(store, scanner.New(nil), version), nil
}

func newServer(store storage.Storage, sc *scanner.Scanner, version string) *Server {
	s := &Server{
		mcp:     server.NewMCPServer(ServerName, version),
		storage: store,
		scanner: sc,
	}
	s.registerTools()
	return s
}

// Serve speaks MCP over in and out until ctx is cancelled or in reaches
// EOF. Cancellation is a clean shutdown and returns nil.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelError))

	err := stdio.Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close releases the history database.
func (s *Server) Close() error {
	return s.storage.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(countUniqueLinesTool(), s.handleCountUniqueLines)
	s.mcp.AddTool(listRunsTool(), s.handleListRuns)
	s.mcp.AddTool(getRunTool(), s.handleGetRun)
	s.mcp.AddTool(deleteRunTool(), s.handleDeleteRun)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}

// ScanLock lets one count_unique_lines call run at a time. A scan holds
// every file it reads in memory until the report is built.
type ScanLock struct {
	held atomic.Bool
}

// TryAcquire takes the lock if it is free and reports whether it did.
func (l *ScanLock) TryAcquire() bool {
	return l.held.CompareAndSwap(false, true)
}

// Release frees the lock. Only the holder may call it.
func (l *ScanLock) Release() {
	l.held.Store(false)
}
