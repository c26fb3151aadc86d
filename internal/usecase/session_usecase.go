// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"identity/internal/domain/entity"
)

// SessionGate resolves the account behind a request credential.
type SessionGate interface {
	// AuthenticateRequest verifies an access token and loads its active account.
	// Every failure is reported as ErrUnauthenticated.
	AuthenticateRequest(ctx context.Context, accessToken string) (*entity.Account, error)
}
