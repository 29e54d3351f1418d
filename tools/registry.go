// Package tools provides a metadata-driven registry for MCP tool
// definitions. Tools are declared as specs and registered through
// type-safe handlers, which keeps main.go free of boilerplate.
package tools

// ToolSpec defines a tool's metadata for declarative registration.
type ToolSpec struct {
	// Name is the MCP tool name (e.g., "search_law")
	Name string

	// Method is the client method name (e.g., "SearchLaw"). Table-driven
	// tools share a method and differ by Target.
	Method string

	// Description is the tool description shown to LLMs
	Description string

	// Title is the human-readable tool title for annotations
	Title string

	// Category groups tools logically (law, precedent, committee, ...)
	Category string

	// Target is the upstream API target for table-driven tools
	Target string

	// ReadOnly indicates the tool doesn't modify upstream state
	ReadOnly bool

	// Idempotent indicates repeated calls have the same effect
	Idempotent bool

	// OpenWorld indicates the tool accesses external resources
	OpenWorld bool
}

// ptr is a helper to create a pointer to a value.
func ptr[T any](v T) *T {
	return &v
}
