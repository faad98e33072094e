// Package crm exposes Odoo CRM leads as MCP tools.
// Every operation authenticates, makes one call against crm.lead and turns
// the outcome into a structured result.
package crm

import "github.com/olgasafonova/odoo-crm-mcp-server/internal/odoo"

// Model is the Odoo model holding leads
const Model = "crm.lead"

// Fields requested by list_leads and get_lead_by_id
var (
	listFields   = []string{"name", "contact_name", "email_from"}
	detailFields = []string{"name", "contact_name", "email_from", "phone", "description"}
)

// LeadSummary is a lead as listed by list_leads: id plus the list fields.
// Odoo's false for unset fields becomes "".
type LeadSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	EmailFrom   string `json:"email_from"`
}

// Lead is a CRM sales prospect with every field get_lead_by_id requests
type Lead struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	EmailFrom   string `json:"email_from"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

func leadFromRecord(rec odoo.Record) Lead {
	id, _ := odoo.AsInt64(rec["id"])
	return Lead{
		ID:          id,
		Name:        odoo.AsString(rec["name"]),
		ContactName: odoo.AsString(rec["contact_name"]),
		EmailFrom:   odoo.AsString(rec["email_from"]),
		Phone:       odoo.AsString(rec["phone"]),
		Description: odoo.AsString(rec["description"]),
	}
}

func summariesFromRecords(records []odoo.Record) []LeadSummary {
	leads := make([]LeadSummary, 0, len(records))
	for _, rec := range records {
		id, _ := odoo.AsInt64(rec["id"])
		leads = append(leads, LeadSummary{
			ID:          id,
			Name:        odoo.AsString(rec["name"]),
			ContactName: odoo.AsString(rec["contact_name"]),
			EmailFrom:   odoo.AsString(rec["email_from"]),
		})
	}
	return leads
}

// Status codes reported by create_leads
const (
	CodeCreated         = 200
	CodeBadRequest      = 400
	CodeUnauthenticated = 401
	CodeBadGateway      = 502
)
