// Package tools provides a metadata-driven registry for MCP tool definitions.
// Tools are defined declaratively and registered through type-safe handlers,
// which keeps main.go free of per-tool boilerplate.
package tools

// ToolSpec defines a tool's metadata for declarative registration.
// Each spec maps to an adapter method with matching Args/Result types.
type ToolSpec struct {
	// Name is the MCP tool name (e.g., "list_leads")
	Name string

	// Method is the adapter method name (e.g., "ListLeads")
	Method string

	// Description is the tool description shown to LLMs
	Description string

	// Title is the human-readable tool title for annotations
	Title string

	// Category groups tools logically (read, write)
	Category string

	// Model is the Odoo model the tool operates on
	Model string

	// ReadOnly indicates the tool doesn't modify CRM state
	ReadOnly bool

	// Destructive indicates the tool can delete or overwrite data
	Destructive bool

	// Idempotent indicates repeated calls have the same effect
	Idempotent bool

	// OpenWorld indicates the tool accesses external resources
	OpenWorld bool
}

// ptr is a helper to create a pointer to a value.
func ptr[T any](v T) *T {
	return &v
}
