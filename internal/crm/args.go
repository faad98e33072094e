package crm

// ListLeadsArgs takes no parameters
type ListLeadsArgs struct{}

// ListLeadsResult is the result of list_leads.
// Leads is null when the call failed and [] when the CRM has no leads.
type ListLeadsResult struct {
	Leads     []LeadSummary `json:"leads"`
	Count     int           `json:"count"`
	Error     string        `json:"error,omitempty"`
	ErrorCode string        `json:"error_code,omitempty"`
}

// GetLeadByIDArgs contains parameters for fetching one lead
type GetLeadByIDArgs struct {
	LeadID int64 `json:"lead_id" jsonschema:"ID of the lead to fetch" validate:"gt=0"`
}

// GetLeadResult is the result of get_lead_by_id: the lead record itself on
// success, or error and error_code on failure. Record fields are pointers so a
// found lead serializes every field, empty ones included.
type GetLeadResult struct {
	ID          *int64  `json:"id,omitempty"`
	Name        *string `json:"name,omitempty"`
	ContactName *string `json:"contact_name,omitempty"`
	EmailFrom   *string `json:"email_from,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Description *string `json:"description,omitempty"`
	Error       string  `json:"error,omitempty"`
	ErrorCode   string  `json:"error_code,omitempty"`
}

func newGetLeadResult(l Lead) GetLeadResult {
	return GetLeadResult{
		ID:          &l.ID,
		Name:        &l.Name,
		ContactName: &l.ContactName,
		EmailFrom:   &l.EmailFrom,
		Phone:       &l.Phone,
		Description: &l.Description,
	}
}

// Lead returns the record carried by r, or nil when the call failed
func (r GetLeadResult) Lead() *Lead {
	if r.ID == nil {
		return nil
	}
	return &Lead{
		ID:          *r.ID,
		Name:        deref(r.Name),
		ContactName: deref(r.ContactName),
		EmailFrom:   deref(r.EmailFrom),
		Phone:       deref(r.Phone),
		Description: deref(r.Description),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CreateLeadArgs contains the fields of a new lead. Only name is required;
// values are sent to Odoo exactly as given.
type CreateLeadArgs struct {
	Name        string `json:"name" jsonschema:"Name of the new lead" validate:"required"`
	ContactName string `json:"contact_name,omitempty" jsonschema:"Name of the contact person"`
	EmailFrom   string `json:"email_from,omitempty" jsonschema:"Email address of the contact person"`
	Phone       string `json:"phone,omitempty" jsonschema:"Phone number of the contact person"`
	Description string `json:"description,omitempty" jsonschema:"Free-text notes about the lead"`
}

// CreateLeadResult is the result of create_leads.
// Code is 200 on success, 401 when authentication fails, 400 for invalid
// input or a fault raised by Odoo and 502 when Odoo could not be reached.
type CreateLeadResult struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	LeadID    int64  `json:"lead_id,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}
