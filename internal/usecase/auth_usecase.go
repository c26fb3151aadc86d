// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"identity/internal/domain/entity"
	"identity/internal/domain/service"
)

// --- Input DTOs ---

// ProfileInput carries the profile part of a registration request.
type ProfileInput struct {
	PhoneNumber string
	Role        string
	DateOfBirth string // YYYY-MM-DD, optional
}

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Email           string
	Username        string
	Password        string
	PasswordConfirm string
	Profile         *ProfileInput
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// AuthOutput returns the authenticated account with a fresh token pair.
type AuthOutput struct {
	Account *entity.Account
	Tokens  *service.TokenPair
}

// AuthUsecase defines the interface for registration and login.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Register validates input, creates the account and its profile atomically and issues tokens.
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)

	// Login checks credentials and issues tokens.
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)

	// CreateSuperuser registers a verified staff account with the admin role.
	CreateSuperuser(ctx context.Context, input RegisterInput) (*entity.Account, error)
}
