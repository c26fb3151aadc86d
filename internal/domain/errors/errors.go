// Package errors defines the application errors surfaced to API clients.
package errors

import (
	"net/http"

	"identity/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int        // HTTP status code
	ErrorCode() string    // Business error code
	Message() string      // User-friendly error message
	Details() FieldErrors // Per-field messages (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   FieldErrors
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message string, details FieldErrors) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// Is matches any BaseError carrying the same error code, so copies produced
// by WithDetails still satisfy errors.Is against the predefined value.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns per-field error messages
func (e *BaseError) Details() FieldErrors {
	return e.details
}

// WithDetails returns a copy of the error carrying the given field errors
func (e *BaseError) WithDetails(details FieldErrors) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Public messages shared by several errors.
const (
	MsgInvalidCredentials = "Invalid email or password."
	MsgAccountDeactivated = "Your account has been deactivated. Please contact support."
	MsgInvalidToken       = "Invalid or expired token"
)

// Predefined error types
var (
	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Validation failed",
		nil,
	)

	ErrInvalidRequestBody = NewBaseError(
		http.StatusBadRequest,
		"INVALID_REQUEST_BODY",
		"Invalid request body",
		nil,
	)

	// Authentication-related errors
	ErrAuthenticationFailed = NewBaseError(
		http.StatusBadRequest,
		"AUTHENTICATION_FAILED",
		"Authentication failed",
		nil,
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusBadRequest,
		"INVALID_CREDENTIALS",
		"Authentication failed",
		FieldErrors{NonFieldErrors: {MsgInvalidCredentials}},
	)

	ErrAccountDeactivated = NewBaseError(
		http.StatusBadRequest,
		"ACCOUNT_DEACTIVATED",
		"Authentication failed",
		FieldErrors{NonFieldErrors: {MsgAccountDeactivated}},
	)

	ErrUnauthenticated = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHENTICATED",
		"Authentication credentials were not provided or are invalid.",
		nil,
	)

	// Token-related errors share one public message.
	ErrTokenExpired = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
		MsgInvalidToken,
		nil,
	)

	ErrTokenMalformed = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_MALFORMED",
		MsgInvalidToken,
		nil,
	)

	ErrTokenWrongType = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_WRONG_TYPE",
		MsgInvalidToken,
		nil,
	)

	// Password-related errors
	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"Password processing failed",
		nil,
	)

	ErrTokenIssueFailed = NewBaseError(
		http.StatusInternalServerError,
		"TOKEN_ISSUE_FAILED",
		"Token issuance failed",
		nil,
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		nil,
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Not found",
		nil,
	)
)

// DatabaseExecuteError represents a storage failure, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, e.details+": database execution failed").Error()
}

// Unwrap exposes the driver error
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Internal server error"
}

// Details never exposes storage internals to clients
func (e *DatabaseExecuteError) Details() FieldErrors {
	return nil
}
