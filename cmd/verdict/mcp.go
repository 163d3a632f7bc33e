package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/aretw0/verdict/pkg/adapters/mcp"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes verdict documents as MCP tools (create_document, convert, edit_text,
classify, get_document) and resources, so AI agents can build and judge lists.

With the stdio transport all logs go to stderr; stdout carries JSON-RPC only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		b, err := newBackend(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = b.close() }()

		srv := mcp.NewServer(b.engine, b.sessions,
			mcp.WithLogger(logger),
			mcp.WithIDStrategy(domain.IDStrategy(cfg.Editor.IDStrategy)),
			mcp.WithMaxTextSize(cfg.Editor.MaxTextSize),
		)

		switch transport {
		case "stdio":
			logger.Info("Starting MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			return srv.ServeSSE(ctx, port)
		default:
			return fmt.Errorf("unknown transport %q (want stdio or sse)", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().Int("port", 8081, "Port for the sse transport")
}
