package crm

import (
	"errors"
	"strings"
	"testing"

	apierrors "github.com/olgasafonova/odoo-crm-mcp-server/internal/errors"
)

func TestValidateCreateLead(t *testing.T) {
	tests := []struct {
		name      string
		args      CreateLeadArgs
		wantErr   bool
		wantField string
	}{
		{"name only", CreateLeadArgs{Name: "Lead"}, false, ""},
		{"all fields", CreateLeadArgs{Name: "Lead", ContactName: "Jane", EmailFrom: "jane@example.com", Phone: "555-1234", Description: "demo"}, false, ""},
		{"email not checked locally", CreateLeadArgs{Name: "Lead", EmailFrom: "not-an-email"}, false, ""},
		{"empty name", CreateLeadArgs{}, true, "name"},
		{"whitespace name left to odoo", CreateLeadArgs{Name: " \t\n"}, false, ""},
		{"long values not capped", CreateLeadArgs{Name: strings.Repeat("x", 5000), Phone: strings.Repeat("1", 500)}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreateLead(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCreateLead() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}

			var verr *apierrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateLeadID(t *testing.T) {
	tests := []struct {
		id      int64
		wantErr bool
	}{
		{1, false},
		{42, false},
		{0, true},
		{-1, true},
	}

	for _, tt := range tests {
		err := ValidateLeadID(tt.id)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateLeadID(%d) error = %v, wantErr %v", tt.id, err, tt.wantErr)
		}
		if err != nil && !strings.Contains(err.Error(), "lead_id") {
			t.Errorf("error should name lead_id, got %q", err.Error())
		}
	}
}
