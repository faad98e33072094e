// Odoo CRM MCP Server - A Model Context Protocol server for Odoo CRM leads
// Provides tools for listing, reading, and creating leads over Odoo's XML-RPC API
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olgasafonova/odoo-crm-mcp-server/internal/config"
	"github.com/olgasafonova/odoo-crm-mcp-server/internal/crm"
	"github.com/olgasafonova/odoo-crm-mcp-server/internal/odoo"
	"github.com/olgasafonova/odoo-crm-mcp-server/tools"
	"github.com/olgasafonova/odoo-crm-mcp-server/tracing"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// recoverPanic logs a recovered panic instead of crashing
func recoverPanic(logger *slog.Logger, operation string) {
	if r := recover(); r != nil {
		logger.Error("Panic recovered",
			"operation", operation,
			"panic", r,
			"stack", string(debug.Stack()))
	}
}

const (
	ServerName    = "odoo-crm-mcp-server"
	ServerVersion = "1.0.0"
)

const serverInstructions = `Odoo CRM MCP Server provides tools for working with leads in an Odoo CRM.

Available tools:
- list_leads: List all leads (name, contact, email)
- get_lead_by_id: Get one lead with phone and description
- create_leads: Create a new lead (name is required; every call creates a new record)

Failed calls return a structured result with error_code: unauthenticated, not_found, transport_error, remote_fault or validation.

Configure via environment variables:
- ODOO_URL: Odoo base URL (e.g., https://mycompany.odoo.com)
- ODOO_DB: Database name
- ODOO_USER: Login
- ODOO_PASSWORD: Password or API key`

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:          ServerName,
		Short:        "MCP server exposing Odoo CRM leads as tools",
		Version:      ServerVersion,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v, cmd.Flags())
		},
	}

	cmd.Flags().String("http", "", "Serve MCP over streamable HTTP on this address (e.g. :8080) instead of stdio")
	cmd.Flags().String("env-file", config.DefaultEnvFile, "Path to a .env file with ODOO_* variables")
	cmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")

	return cmd
}

func run(ctx context.Context, v *viper.Viper, flags *pflag.FlagSet) error {
	if err := config.Init(v, flags); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Configure logging to stderr (stdout is used for MCP protocol)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	server := newServer(cfg, logger)

	logger.Info("Starting Odoo CRM MCP Server",
		"name", ServerName,
		"version", ServerVersion,
		"odoo", cfg,
		"transport", transportName(cfg),
	)

	if cfg.HTTPAddr != "" {
		return serveHTTP(ctx, server, cfg, logger)
	}

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// newServer builds the MCP server with all tools bound to an Odoo client for cfg
func newServer(cfg *config.Config, logger *slog.Logger) *mcp.Server {
	client := odoo.NewClient(cfg, odoo.WithLogger(logger))
	adapter := crm.NewAdapter(client, client.Timeout(), logger)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, &mcp.ServerOptions{
		Logger:       logger,
		Instructions: serverInstructions,
	})

	tools.NewHandlerRegistry(adapter, logger).RegisterAll(server)
	return server
}

func transportName(cfg *config.Config) string {
	if cfg.HTTPAddr != "" {
		return "http"
	}
	return "stdio"
}
