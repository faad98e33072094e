package crm

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	apierrors "github.com/olgasafonova/odoo-crm-mcp-server/internal/errors"
)

var validate = newValidator()

// newValidator reports fields by their JSON names so errors match the tool schema
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateCreateLead checks the arguments of create_leads.
// Odoo owns the schema; locally only an empty name is rejected, as Odoo
// would reject it for its required name field.
func ValidateCreateLead(args CreateLeadArgs) error {
	return validateStruct(args)
}

// ValidateLeadID checks that id can identify a record
func ValidateLeadID(id int64) error {
	return validateStruct(GetLeadByIDArgs{LeadID: id})
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apierrors.NewValidationError("", "", err.Error())
	}

	fe := fieldErrs[0]
	value := ""
	if fe.Kind() != reflect.String {
		value = fmt.Sprint(fe.Value())
	}
	return apierrors.NewValidationError(fe.Field(), value, validationMessage(fe))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be a positive integer"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
