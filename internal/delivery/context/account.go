package context

import (
	"context"

	"identity/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// KeyAccount is the key for storing the authenticated account.
const KeyAccount ContextKey = "account"

// SetAccount stores the authenticated account in both echo.Context and the request context.
func SetAccount(c echo.Context, account *entity.Account) {
	c.Set(string(KeyAccount), account)
	c.SetRequest(c.Request().WithContext(WithAccount(c.Request().Context(), account)))
}

// GetAccount returns the account stored by the authentication middleware, if any.
func GetAccount(c echo.Context) (*entity.Account, bool) {
	account, ok := c.Get(string(KeyAccount)).(*entity.Account)

	return account, ok && account != nil
}

// WithAccount returns a new context carrying the authenticated account.
func WithAccount(ctx context.Context, account *entity.Account) context.Context {
	return context.WithValue(ctx, KeyAccount, account)
}

// AccountFromContext extracts the authenticated account from context.Context.
func AccountFromContext(ctx context.Context) (*entity.Account, bool) {
	account, ok := ctx.Value(KeyAccount).(*entity.Account)

	return account, ok && account != nil
}
