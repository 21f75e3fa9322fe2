package workflow

import (
	"fmt"
	"strings"
)

// FieldError is a field-scoped validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a submission in total; no mutation was performed.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "validation failed: " + strings.Join(names, ", ")
}

// Cites reports whether the failure names the given field.
func (e *ValidationError) Cites(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

type GuardCode string

const (
	// GuardCapability: the actor's role lacks the required permission.
	GuardCapability GuardCode = "capability_missing"
	// GuardReason: a return was requested without a usable justification.
	GuardReason GuardCode = "reason_too_short"
	// GuardTransition: the edge is not in the transition table.
	GuardTransition GuardCode = "invalid_transition"
)

// GuardError rejects a workflow transition; no mutation was performed.
type GuardError struct {
	Code    GuardCode
	Message string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("workflow guard (%s): %s", e.Code, e.Message)
}
