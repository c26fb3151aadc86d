// Package response renders the JSON bodies returned by the HTTP API.
package response

import (
	"net/http"
	"time"

	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string             `json:"message"`
	User    *User              `json:"user"`
	Tokens  *service.TokenPair `json:"tokens"`
}

// MeResponse is returned for the authenticated account.
type MeResponse struct {
	User *User `json:"user"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string                   `json:"error"`
	Details domainerrors.FieldErrors `json:"details,omitempty"`
}

// User is the public view of an account.
type User struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	IsActive   bool      `json:"is_active"`
	JoinedAt   time.Time `json:"joined_at"`
	IsVerified bool      `json:"is_verified"`
	Profile    *Profile  `json:"profile"`
}

// Profile is the public view of an account profile.
type Profile struct {
	PhoneNumber string  `json:"phone_number"`
	Role        string  `json:"role"`
	DateOfBirth *string `json:"date_of_birth"`
}

// NewUser maps an account to its public view. The password hash is never exposed.
func NewUser(account *entity.Account) *User {
	if account == nil {
		return nil
	}

	user := &User{
		ID:         account.ID,
		Email:      account.Email,
		Username:   account.Username,
		IsActive:   account.IsActive,
		JoinedAt:   account.JoinedAt,
		IsVerified: account.IsVerified,
	}

	if account.Profile != nil {
		user.Profile = &Profile{
			PhoneNumber: account.Profile.PhoneNumber,
			Role:        account.Role().String(),
		}
		if account.Profile.DateOfBirth != nil {
			dob := account.Profile.DateOfBirth.Format(dateLayout)
			user.Profile.DateOfBirth = &dob
		}
	}

	return user
}

// Auth writes an AuthResponse.
func Auth(c echo.Context, statusCode int, message string, account *entity.Account, tokens *service.TokenPair) error {
	return c.JSON(statusCode, AuthResponse{
		Message: message,
		User:    NewUser(account),
		Tokens:  tokens,
	})
}

// Me writes a MeResponse.
func Me(c echo.Context, account *entity.Account) error {
	return c.JSON(http.StatusOK, MeResponse{User: NewUser(account)})
}

// Error writes an ErrorResponse.
func Error(c echo.Context, statusCode int, message string, details domainerrors.FieldErrors) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// AppError writes the public part of an application error.
func AppError(c echo.Context, err domainerrors.AppError) error {
	return Error(c, err.HTTPCode(), err.Message(), err.Details())
}
