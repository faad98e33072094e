// Package errors provides the error taxonomy shared by the Odoo backend and the CRM adapter.
package errors

import (
	"errors"
	"fmt"
)

// Kind tags an error with the caller-visible failure class.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindNotFound        Kind = "not_found"
	KindTransport       Kind = "transport_error"
	KindRemoteFault     Kind = "remote_fault"
	KindValidation      Kind = "validation"
)

// UnauthenticatedError indicates Odoo rejected the configured credentials.
type UnauthenticatedError struct {
	Database string
	Username string
	Reason   string // empty when authenticate simply returned false
}

func (e *UnauthenticatedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("authentication failed for %s on database %s: %s", e.Username, e.Database, e.Reason)
	}
	return fmt.Sprintf("authentication failed for %s on database %s", e.Username, e.Database)
}

// Kind returns KindUnauthenticated.
func (e *UnauthenticatedError) Kind() Kind { return KindUnauthenticated }

// NotFoundError indicates a record lookup matched nothing.
type NotFoundError struct {
	Model string // "crm.lead"
	ID    int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s record not found: %d", e.Model, e.ID)
}

// Kind returns KindNotFound.
func (e *NotFoundError) Kind() Kind { return KindNotFound }

// NewNotFoundError creates a NotFoundError for a record lookup.
func NewNotFoundError(model string, id int64) *NotFoundError {
	return &NotFoundError{Model: model, ID: id}
}

// TransportError wraps network, HTTP and decoding failures talking to Odoo.
type TransportError struct {
	Endpoint string // "common" or "object"
	Method   string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("odoo %s %s: %v", e.Endpoint, e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Kind returns KindTransport.
func (e *TransportError) Kind() Kind { return KindTransport }

// RemoteFaultError is an XML-RPC fault raised by Odoo (validation, access rights, missing fields).
type RemoteFaultError struct {
	Method string
	Fault  string
}

func (e *RemoteFaultError) Error() string {
	return fmt.Sprintf("odoo rejected %s: %s", e.Method, e.Fault)
}

// Kind returns KindRemoteFault.
func (e *RemoteFaultError) Kind() Kind { return KindRemoteFault }

// ValidationError indicates invalid tool arguments caught before any remote call.
type ValidationError struct {
	Field   string
	Value   string // may be empty for sensitive data
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("validation failed for %s=%q: %s", e.Field, e.Value, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Kind returns KindValidation.
func (e *ValidationError) Kind() Kind { return KindValidation }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

type kinded interface {
	Kind() Kind
}

// KindOf returns the tag of the first tagged error in err's chain.
// Untagged errors are treated as transport failures.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindTransport
}

// IsUnauthenticated returns true if err wraps an UnauthenticatedError.
func IsUnauthenticated(err error) bool {
	var target *UnauthenticatedError
	return errors.As(err, &target)
}

// IsNotFound returns true if err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsTransport returns true if err wraps a TransportError.
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsRemoteFault returns true if err wraps a RemoteFaultError.
func IsRemoteFault(err error) bool {
	var target *RemoteFaultError
	return errors.As(err, &target)
}

// IsValidation returns true if err wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
