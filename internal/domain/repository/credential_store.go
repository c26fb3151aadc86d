// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"identity/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAccountNotFound is returned by lookups that match no account.
var ErrAccountNotFound = errors.New("account not found")

// AccountFinder is the read side of the CredentialStore. Every lookup returns
// the account with its Profile loaded, or ErrAccountNotFound.
type AccountFinder interface {
	// FindByEmail retrieves an account by its normalized email.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// FindByUsername retrieves an account by its username.
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)

	// FindByPhone retrieves the account whose profile holds the canonical phone number.
	FindByPhone(ctx context.Context, phone string) (*entity.Account, error)

	// FindAccountByID retrieves an account by its identifier.
	FindAccountByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
}

// CredentialStore persists accounts and their profiles with uniqueness enforcement.
type CredentialStore interface {
	AccountFinder

	// CreateAccountWithProfile stores the account and its Profile atomically.
	// Either both rows are durable afterwards or neither is. A uniqueness
	// violation reported by storage comes back as *errors.ConflictError.
	CreateAccountWithProfile(ctx context.Context, account *entity.Account) error
}
