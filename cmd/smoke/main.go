// Command smoke runs a live round trip against a real Odoo database:
// create a lead, find it in list_leads, then fetch it by id.
//
// Usage:
//
//	go run ./cmd/smoke --env-file .env
//
// It writes a real record. Point it at a test database.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/olgasafonova/odoo-crm-mcp-server/internal/config"
	"github.com/olgasafonova/odoo-crm-mcp-server/internal/crm"
	apierrors "github.com/olgasafonova/odoo-crm-mcp-server/internal/errors"
	"github.com/olgasafonova/odoo-crm-mcp-server/internal/odoo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	v := viper.New()

	cmd := &cobra.Command{
		Use:          "smoke",
		Short:        "Create, list and fetch a lead against a live Odoo",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(v, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			verbose, _ := cmd.Flags().GetBool("verbose")
			return runSmoke(cmd.Context(), cmd.OutOrStdout(), cfg, verbose)
		},
	}
	cmd.Flags().String("env-file", config.DefaultEnvFile, "Path to a .env file with ODOO_* variables")
	cmd.Flags().Bool("verbose", false, "Log XML-RPC calls to stderr")

	if err := cmd.Execute(); err != nil {
		if hint := failureHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}

// failureHint suggests where to look after a failed step
func failureHint(err error) string {
	switch {
	case apierrors.IsTransport(err):
		return "hint: check that ODOO_URL is reachable and ODOO_TIMEOUT carries a unit (e.g. 30s)"
	case apierrors.IsUnauthenticated(err):
		return "hint: check ODOO_DB, ODOO_USER and ODOO_PASSWORD"
	case apierrors.IsRemoteFault(err):
		return "hint: Odoo rejected the call; the fault text above comes from the server"
	default:
		return ""
	}
}

func runSmoke(ctx context.Context, out io.Writer, cfg *config.Config, verbose bool) error {
	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	client := odoo.NewClient(cfg, odoo.WithLogger(logger))
	adapter := crm.NewAdapter(client, client.Timeout(), logger)

	fmt.Fprintln(out, "Odoo CRM MCP Server - Smoke Test")
	fmt.Fprintln(out, "================================")
	fmt.Fprintf(out, "Target: %s (database %s)\n\n", cfg.URL, cfg.Database)

	// 1. Authenticate
	start := time.Now()
	uid, err := client.Authenticate(ctx)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	fmt.Fprintf(out, "1. authenticate    uid=%d  (%v)\n", uid, time.Since(start).Round(time.Millisecond))

	// 2. Create
	name := "Smoke test " + uuid.NewString()[:8]
	start = time.Now()
	id, err := adapter.CreateLead(ctx, crm.CreateLeadArgs{
		Name:        name,
		ContactName: "Smoke Test",
		EmailFrom:   "smoke@example.com",
		Phone:       "555-0100",
		Description: "Created by cmd/smoke",
	})
	if err != nil {
		return fmt.Errorf("create_leads: %w", err)
	}
	fmt.Fprintf(out, "2. create_leads    id=%d  (%v)\n", id, time.Since(start).Round(time.Millisecond))

	// 3. List
	start = time.Now()
	leads, err := adapter.ListLeads(ctx)
	if err != nil {
		return fmt.Errorf("list_leads: %w", err)
	}
	found := false
	for _, lead := range leads {
		if lead.ID == id && lead.Name == name {
			found = true
			break
		}
	}
	fmt.Fprintf(out, "3. list_leads      count=%d found=%v  (%v)\n", len(leads), found, time.Since(start).Round(time.Millisecond))
	if !found {
		return fmt.Errorf("list_leads: lead %d missing from %d results", id, len(leads))
	}

	// 4. Get
	start = time.Now()
	lead, err := adapter.GetLeadByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get_lead_by_id: %w", err)
	}
	fmt.Fprintf(out, "4. get_lead_by_id  name=%q phone=%q  (%v)\n", lead.Name, lead.Phone, time.Since(start).Round(time.Millisecond))
	if lead.ID != id {
		return fmt.Errorf("get_lead_by_id: got id %d, want %d", lead.ID, id)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "OK. Lead %d was left in place; delete it from the CRM when done.\n", id)
	return nil
}
