package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldInput  = "input"
	FieldOutput = "output"

	// Parse fields.
	FieldMessages   = "messages"
	FieldErrors     = "errors"
	FieldWarnings   = "warnings"
	FieldDepthLimit = "depth_limit"
	FieldVariables  = "variables"
	FieldPrelude    = "prelude"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
