package crm

import (
	"context"
	"log/slog"
	"time"

	apierrors "github.com/olgasafonova/odoo-crm-mcp-server/internal/errors"
	"github.com/olgasafonova/odoo-crm-mcp-server/internal/odoo"
)

// Adapter runs lead operations against an Odoo backend.
// It keeps no state between calls and is safe for concurrent use.
type Adapter struct {
	backend odoo.Backend
	timeout time.Duration
	logger  *slog.Logger
}

// NewAdapter creates an Adapter. timeout bounds each operation including
// authentication; zero means no bound beyond the caller's context.
func NewAdapter(backend odoo.Backend, timeout time.Duration, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		backend: backend,
		timeout: timeout,
		logger:  logger,
	}
}

// ListLeads returns every lead with its list fields
func (a *Adapter) ListLeads(ctx context.Context) ([]LeadSummary, error) {
	return odoo.Do(ctx, a.backend, a.timeout, func(ctx context.Context, uid int64) ([]LeadSummary, error) {
		records, err := a.backend.SearchRead(ctx, uid, Model, odoo.Domain{}, listFields)
		if err != nil {
			return nil, err
		}
		return summariesFromRecords(records), nil
	})
}

// GetLeadByID returns the lead with id, or a NotFoundError
func (a *Adapter) GetLeadByID(ctx context.Context, id int64) (*Lead, error) {
	if err := ValidateLeadID(id); err != nil {
		return nil, err
	}

	return odoo.Do(ctx, a.backend, a.timeout, func(ctx context.Context, uid int64) (*Lead, error) {
		records, err := a.backend.SearchRead(ctx, uid, Model, odoo.Domain{odoo.Eq("id", id)}, detailFields)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, apierrors.NewNotFoundError(Model, id)
		}
		lead := leadFromRecord(records[0])
		return &lead, nil
	})
}

// CreateLead creates a lead and returns its id. Field values are passed
// through unchanged. Calls are not idempotent: the same input twice creates
// two leads.
func (a *Adapter) CreateLead(ctx context.Context, args CreateLeadArgs) (int64, error) {
	if err := ValidateCreateLead(args); err != nil {
		return 0, err
	}

	values := odoo.Record{
		"name":         args.Name,
		"contact_name": args.ContactName,
		"email_from":   args.EmailFrom,
		"phone":        args.Phone,
		"description":  args.Description,
	}

	id, err := odoo.Do(ctx, a.backend, a.timeout, func(ctx context.Context, uid int64) (int64, error) {
		return a.backend.Create(ctx, uid, Model, values)
	})
	if err != nil {
		return 0, err
	}

	a.logger.Info("Lead created", "lead_id", id, "name", args.Name)
	return id, nil
}
