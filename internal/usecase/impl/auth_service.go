// Package impl contains the implementation of the application's business logic.
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
	"identity/internal/validation"
)

// dummyPassword is hashed once and verified against when a login names an
// unknown email, so both failure paths spend the same hashing time.
const dummyPassword = "identity-dummy-password"

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	store        repository.CredentialStore
	validator    *validation.Validator
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger

	// dummyHash is computed at construction so no login pays for hashing it.
	dummyHash string
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(
	txManager repository.TransactionManager,
	store repository.CredentialStore,
	validator *validation.Validator,
	hasher service.PasswordHasher,
	tokenService service.TokenService,
	logger *slog.Logger,
) (usecase.AuthUsecase, error) {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare dummy password hash")
	}

	return &authService{
		txManager:    txManager,
		store:        store,
		validator:    validator,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger,
		dummyHash:    dummyHash,
	}, nil
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete registration process.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	account, err := srv.createAccount(ctx, input, false)
	if err != nil {
		return nil, err
	}

	tokens, err := srv.issueTokens(ctx, account)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("accountID", account.ID))

	return &usecase.AuthOutput{Account: account, Tokens: tokens}, nil
}

// CreateSuperuser registers a verified staff account with the admin role.
func (srv *authService) CreateSuperuser(ctx context.Context, input usecase.RegisterInput) (*entity.Account, error) {
	srv.log(ctx).Info("Creating superuser", slog.String("email", input.Email))

	if input.Profile != nil && input.Profile.Role == "" {
		input.Profile.Role = entity.RoleAdmin.String()
	}

	return srv.createAccount(ctx, input, true)
}

func (srv *authService) createAccount(ctx context.Context, input usecase.RegisterInput, superuser bool) (*entity.Account, error) {
	reg, err := srv.validator.ValidateRegistration(ctx, input)
	if err != nil {
		srv.log(ctx).Warn("Registration validation failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "registration validation failed")
	}

	passwordHash, err := srv.hasher.Hash(reg.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrapf(domainerrors.ErrPasswordHashFailed, "hash password: %v", err)
	}

	account := entity.NewAccount(reg.Email, reg.Username, passwordHash, reg.Profile)
	if superuser {
		account.PromoteToSuperuser()
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.CredentialStore().CreateAccountWithProfile(ctx, account)
	})
	if err != nil {
		if conflict, ok := errors.AsType[*domainerrors.ConflictError](err); ok {
			srv.log(ctx).Warn("Registration conflict", slog.String("field", conflict.Field))
		} else {
			srv.log(ctx).Error("Failed to execute registration transaction", slog.String("email", reg.Email), slog.Any("error", err))
		}

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	return account, nil
}

// Login orchestrates the login process.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	creds, err := srv.validator.ValidateLogin(input)
	if err != nil {
		details, _ := errors.AsType[domainerrors.FieldErrors](err)

		return nil, domainerrors.ErrAuthenticationFailed.WithDetails(details)
	}

	srv.log(ctx).Debug("Starting login", slog.String("email", creds.Email))

	account, err := srv.store.FindByEmail(ctx, creds.Email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		// Spend the same hashing time as a wrong password.
		srv.hasher.Verify(creds.Password, srv.dummyHash)
		srv.log(ctx).Warn("Login failed", slog.String("email", creds.Email), slog.String("reason", "unknown email"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find account by email")
	}

	if !srv.hasher.Verify(creds.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", creds.Email), slog.String("reason", "password mismatch"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	if !account.CanLogin() {
		srv.log(ctx).Warn("Login rejected for deactivated account", slog.Any("accountID", account.ID))

		return nil, errors.Wrap(domainerrors.ErrAccountDeactivated, "login failed")
	}

	tokens, err := srv.issueTokens(ctx, account)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Account logged in successfully", slog.Any("accountID", account.ID))

	return &usecase.AuthOutput{Account: account, Tokens: tokens}, nil
}

func (srv *authService) issueTokens(ctx context.Context, account *entity.Account) (*service.TokenPair, error) {
	tokens, err := srv.tokenService.Issue(account.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue tokens", slog.Any("accountID", account.ID), slog.Any("error", err))

		return nil, errors.Wrapf(domainerrors.ErrTokenIssueFailed, "issue tokens: %v", err)
	}

	return tokens, nil
}
