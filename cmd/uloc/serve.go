package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/uloc/internal/mcp"
	"github.com/dshills/uloc/internal/storage"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout exposing the
count_unique_lines, list_runs, get_run, delete_run and get_status tools.
The server stops on SIGINT, SIGTERM or end of input. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	server, err := mcp.NewServer(a.cfg.DBPath, version)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("MCP server ready, listening on stdio",
		"version", version,
		"build_mode", storage.BuildMode,
		"driver", storage.DriverName,
		"db", a.cfg.DBPath)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// End of input also ends the watcher below
		defer stop()
		return server.Serve(gctx, a.stdin, a.stdout)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down, closing history database")
		if err := server.Close(); err != nil {
			return fmt.Errorf("failed to close history database: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
