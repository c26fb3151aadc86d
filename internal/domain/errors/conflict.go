package errors

import "net/http"

// Conflict messages keyed by the field whose uniqueness was violated.
var conflictMessages = map[string]string{
	"email":                "An account with this email already exists.",
	"username":             "This username is already taken.",
	"profile.phone_number": "This phone number is already registered.",
}

// ConflictError reports a uniqueness violation detected while writing, after
// validation had already passed. It implements AppError.
type ConflictError struct {
	Field string
	cause error
}

// NewConflictError creates a ConflictError for the given field. An empty field
// means the violated constraint could not be attributed.
func NewConflictError(field string, cause error) *ConflictError {
	return &ConflictError{Field: field, cause: cause}
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	if e.Field == "" {
		return "unique constraint violated"
	}

	return "unique constraint violated on " + e.Field
}

// Unwrap returns the storage error that triggered the conflict.
func (e *ConflictError) Unwrap() error {
	return e.cause
}

// HTTPCode returns the HTTP status code
func (e *ConflictError) HTTPCode() int {
	return http.StatusBadRequest
}

// ErrorCode returns the business error code
func (e *ConflictError) ErrorCode() string {
	return "CONFLICT"
}

// Message returns the user-friendly error message
func (e *ConflictError) Message() string {
	return "Registration failed"
}

// Details returns the conflicting field with its message.
func (e *ConflictError) Details() FieldErrors {
	if msg, ok := conflictMessages[e.Field]; ok {
		return FieldErrors{e.Field: {msg}}
	}

	return FieldErrors{NonFieldErrors: {"An account with these details already exists."}}
}
