package errors

import (
	"maps"
	"slices"
	"strings"
)

// NonFieldErrors is the key used for messages that do not belong to one field.
const NonFieldErrors = "non_field_errors"

// FieldErrors maps a field name to every message collected for it.
// Nested fields use dotted keys such as "profile.phone_number".
type FieldErrors map[string][]string

// Add appends a message for the field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// AddError records a FieldError under its own field name.
func (fe FieldErrors) AddError(err *FieldError) {
	if err == nil {
		return
	}
	fe.Add(err.Field, err.Message)
}

// Merge copies every entry of other, prefixing keys with prefix when set.
func (fe FieldErrors) Merge(prefix string, other FieldErrors) {
	for field, messages := range other {
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		fe[key] = append(fe[key], messages...)
	}
}

// HasErrors reports whether any message has been collected.
func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}

// Fields returns the sorted list of fields with errors.
func (fe FieldErrors) Fields() []string {
	return slices.Sorted(maps.Keys(fe))
}

// Error renders the map in a stable order for logs.
func (fe FieldErrors) Error() string {
	var sb strings.Builder
	for i, field := range fe.Fields() {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(field)
		sb.WriteString(": ")
		sb.WriteString(strings.Join(fe[field], ", "))
	}

	return sb.String()
}

// FieldError is a single validation failure for one field.
type FieldError struct {
	Field   string
	Message string
}

// NewFieldError creates a FieldError.
func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// Error implements the error interface
func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}
