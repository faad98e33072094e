package tools

import "github.com/olgasafonova/odoo-crm-mcp-server/internal/crm"

// AllTools contains all tool specifications for the Odoo CRM MCP server.
// Tool descriptions follow a structured format for optimal LLM tool selection:
// - USE WHEN: Natural language triggers
// - NOT FOR: Disambiguation from similar tools
// - PARAMETERS: Key arguments with defaults
// - RETURNS: What the tool returns
var AllTools = []ToolSpec{
	// ==========================================================================
	// READ TOOLS
	// ==========================================================================
	{
		Name:     "list_leads",
		Method:   "ListLeads",
		Title:    "List CRM Leads",
		Category: "read",
		Model:    crm.Model,
		Description: `List all leads in the Odoo CRM.

USE WHEN: User asks "show my leads", "what leads do we have", "list prospects in the CRM".

NOT FOR: Phone number or notes of one lead (use get_lead_by_id instead).

PARAMETERS: none

RETURNS: leads with id, name, contact_name and email_from, plus count. On failure leads is null and error_code says why (unauthenticated, transport_error, remote_fault).`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "get_lead_by_id",
		Method:   "GetLeadByID",
		Title:    "Get CRM Lead",
		Category: "read",
		Model:    crm.Model,
		Description: `Get one lead from the Odoo CRM by its numeric ID.

USE WHEN: User asks "show lead 6", "what is the phone number of lead 12", or an ID came from list_leads.

NOT FOR: Finding leads by name (use list_leads instead).

PARAMETERS:
- lead_id: Lead ID, a positive integer (required)

RETURNS: lead with id, name, contact_name, email_from, phone and description. A missing lead returns {"error": "Lead not found", "error_code": "not_found"}.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// WRITE TOOLS
	// ==========================================================================
	{
		Name:     "create_leads",
		Method:   "CreateLead",
		Title:    "Create CRM Lead",
		Category: "write",
		Model:    crm.Model,
		Description: `Create a new lead in the Odoo CRM.

USE WHEN: User says "add a lead for Acme", "log this prospect", "create a CRM lead for Jane at jane@example.com".

NOT FOR: Updating an existing lead. Each call creates a new record, so calling twice creates two leads.

PARAMETERS:
- name: Lead title (required)
- contact_name: Contact person (optional)
- email_from: Contact email (optional)
- phone: Contact phone (optional)
- description: Notes (optional)

RETURNS: code 200 with "Lead created successfully with ID: <id>" and lead_id. Failures return code 401 (authentication), 400 (invalid input or rejected by Odoo) or 502 (Odoo unreachable) with error_code.`,
		ReadOnly:   false,
		Idempotent: false,
		OpenWorld:  true,
	},
}
