package impl

import (
	"context"
	"log/slog"

	deliverycontext "identity/internal/delivery/context"
	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"
	"identity/internal/domain/service"
	"identity/internal/errors"
	"identity/internal/usecase"
)

// sessionGate implements the SessionGate interface.
type sessionGate struct {
	tokenService service.TokenService
	finder       repository.AccountFinder
	logger       *slog.Logger
}

// NewSessionGate is the constructor for sessionGate.
func NewSessionGate(tokenService service.TokenService, finder repository.AccountFinder, logger *slog.Logger) usecase.SessionGate {
	return &sessionGate{
		tokenService: tokenService,
		finder:       finder,
		logger:       logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the gate's logger.
func (g *sessionGate) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, g.logger)
}

// AuthenticateRequest resolves the active account behind an access token.
func (g *sessionGate) AuthenticateRequest(ctx context.Context, accessToken string) (*entity.Account, error) {
	if accessToken == "" {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "missing access token")
	}

	accountID, err := g.tokenService.Verify(accessToken, service.TokenTypeAccess)
	if err != nil {
		return nil, errors.Join(domainerrors.ErrUnauthenticated, err)
	}

	account, err := g.finder.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, repository.ErrAccountNotFound) {
			g.log(ctx).Error("Failed to load account for session", slog.Any("accountID", accountID), slog.Any("error", err))

			return nil, errors.Wrap(err, "failed to load account for session")
		}

		return nil, errors.Join(domainerrors.ErrUnauthenticated, err)
	}

	if !account.CanLogin() {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "account is deactivated")
	}

	return account, nil
}
