package crm

import (
	"context"
	"fmt"

	apierrors "github.com/olgasafonova/odoo-crm-mcp-server/internal/errors"
	"github.com/olgasafonova/odoo-crm-mcp-server/metrics"
)

// MCP Tool wrapper methods
// These never return an error: failures are reported inside the result so the
// agent sees why a call failed and which kind of failure it was.

// NotFoundMessage is the error text of get_lead_by_id for a missing lead
const NotFoundMessage = "Lead not found"

// ListLeadsMCP is the MCP wrapper for ListLeads
func (a *Adapter) ListLeadsMCP(ctx context.Context, _ ListLeadsArgs) (ListLeadsResult, error) {
	leads, err := a.ListLeads(ctx)
	if err != nil {
		code := a.recordFailure("list_leads", err)
		return ListLeadsResult{
			Error:     failureMessage(err),
			ErrorCode: code,
		}, nil
	}

	metrics.LeadsReturned.WithLabelValues("list").Observe(float64(len(leads)))
	return ListLeadsResult{
		Leads: leads,
		Count: len(leads),
	}, nil
}

// GetLeadByIDMCP is the MCP wrapper for GetLeadByID
func (a *Adapter) GetLeadByIDMCP(ctx context.Context, args GetLeadByIDArgs) (GetLeadResult, error) {
	lead, err := a.GetLeadByID(ctx, args.LeadID)
	if err != nil {
		code := a.recordFailure("get_lead_by_id", err)
		msg := failureMessage(err)
		if apierrors.IsNotFound(err) {
			msg = NotFoundMessage
		}
		return GetLeadResult{Error: msg, ErrorCode: code}, nil
	}

	metrics.LeadsReturned.WithLabelValues("get").Observe(1)
	return newGetLeadResult(*lead), nil
}

// CreateLeadsMCP is the MCP wrapper for CreateLead
func (a *Adapter) CreateLeadsMCP(ctx context.Context, args CreateLeadArgs) (CreateLeadResult, error) {
	id, err := a.CreateLead(ctx, args)
	if err != nil {
		code := a.recordFailure("create_leads", err)
		metrics.RecordLeadWrite("create", false)
		return CreateLeadResult{
			Code:      statusCode(err),
			Message:   failureMessage(err),
			ErrorCode: code,
		}, nil
	}

	metrics.RecordLeadWrite("create", true)
	return CreateLeadResult{
		Code:    CodeCreated,
		Message: fmt.Sprintf("Lead created successfully with ID: %d", id),
		LeadID:  id,
	}, nil
}

// recordFailure logs err and counts it under its error code
func (a *Adapter) recordFailure(tool string, err error) string {
	code := string(apierrors.KindOf(err))
	metrics.RecordToolError(tool, code)

	level := a.logger.Warn
	if apierrors.IsNotFound(err) || apierrors.IsValidation(err) {
		level = a.logger.Info
	}
	level("Tool call failed", "tool", tool, "error_code", code, "error", err)
	return code
}

// failureMessage renders err for the agent
func failureMessage(err error) string {
	switch {
	case apierrors.IsUnauthenticated(err):
		return "Authentication failed. Please check your credentials."
	case apierrors.IsNotFound(err):
		return NotFoundMessage
	default:
		return "An error occurred: " + err.Error()
	}
}

// statusCode maps err onto the create_leads status codes
func statusCode(err error) int {
	switch {
	case apierrors.IsUnauthenticated(err):
		return CodeUnauthenticated
	case apierrors.IsValidation(err), apierrors.IsRemoteFault(err):
		return CodeBadRequest
	default:
		return CodeBadGateway
	}
}
