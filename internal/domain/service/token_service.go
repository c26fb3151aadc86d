package service

import (
	"time"

	"github.com/google/uuid"
)

// TokenType discriminates access tokens from refresh tokens.
type TokenType string

const (
	// TokenTypeAccess marks short-lived per-request credentials.
	TokenTypeAccess TokenType = "access"
	// TokenTypeRefresh marks long-lived credentials used to obtain new access tokens.
	TokenTypeRefresh TokenType = "refresh"
)

// IsValid reports whether t is a known token type.
func (t TokenType) IsValid() bool {
	return t == TokenTypeAccess || t == TokenTypeRefresh
}

// TokenPair is the set of tokens handed to a client after authentication.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenService issues and verifies signed, stateless session tokens.
type TokenService interface {
	// Issue creates an access and a refresh token bound to accountID.
	Issue(accountID uuid.UUID) (*TokenPair, error)

	// Verify checks signature, expiry and type of token and returns the bound account id.
	// Failures are ErrTokenExpired, ErrTokenMalformed or ErrTokenWrongType.
	Verify(token string, expected TokenType) (uuid.UUID, error)

	// TTL returns the validity window for tokens of the given type.
	TTL(tokenType TokenType) time.Duration
}
