// Package middleware contains the echo middleware specific to the HTTP API.
package middleware

import (
	"strings"

	deliverycontext "identity/internal/delivery/context"
	"identity/internal/usecase"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware resolves the account behind the Authorization header.
type AuthMiddleware struct {
	gate usecase.SessionGate
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(gate usecase.SessionGate) *AuthMiddleware {
	return &AuthMiddleware{gate: gate}
}

// Authenticate requires a valid access token and stores its account on the context.
// Failures are returned to the HTTP error handler, which renders them as 401.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		account, err := m.gate.AuthenticateRequest(c.Request().Context(), bearerToken(c))
		if err != nil {
			return err
		}

		deliverycontext.SetAccount(c, account)

		return next(c)
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
// Anything else yields an empty token.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(header[len(bearerPrefix):])
}
