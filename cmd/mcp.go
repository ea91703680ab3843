package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/desk-pet/internal/adapters/mcp"
	"github.com/xvierd/desk-pet/internal/ports"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server runs a headless pet and exposes its state, statistics, reminders
and pomodoro controls as tools over stdio.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := setupSignalHandler(cmd.Context())
		defer cancel()

		// stdout carries the protocol, so everything else goes to stderr
		logger := newLogger(os.Stderr)
		rt, err := startPet(ctx, logSink{logger: logger}, logger, cancel)
		if err != nil {
			return err
		}
		defer func() {
			if err := rt.Close(); err != nil {
				logger.Warn("shutdown failed", "error", err)
			}
		}()

		return serveMCP(ctx, mcp.NewServer(rt.controller), logger)
	},
}

// serveMCP runs handler until the client disconnects or ctx ends.
func serveMCP(ctx context.Context, handler ports.MCPHandler, logger *slog.Logger) error {
	defer func() {
		if handler.IsRunning() {
			logger.Info("stopping MCP server")
		}
		_ = handler.Stop()
	}()

	logger.Info("MCP server listening on stdio")
	if err := handler.Start(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
