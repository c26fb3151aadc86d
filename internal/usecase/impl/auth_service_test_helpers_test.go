package impl

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"identity/config"
	"identity/internal/domain/service"
	"identity/internal/infra/auth"
	"identity/internal/infra/persistence/memory"
	"identity/internal/usecase"
	"identity/internal/validation"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		SecretKey: config.SecretKeyConfig{
			Access:  "test_access_secret_key_very_long_for_testing",
			Refresh: "test_refresh_secret_key_very_long_for_testing",
		},
		Auth: &config.AuthConfig{
			BcryptCost:      bcrypt.MinCost,
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
			Issuer:          "identity-test",
		},
	}
}

// realStack wires the services against the in-memory store with real hashing and tokens.
type realStack struct {
	store        *memory.Store
	tokenService service.TokenService
	auth         usecase.AuthUsecase
	gate         usecase.SessionGate
}

func newRealStack(t *testing.T) realStack {
	t.Helper()

	cfg := newTestConfig()
	store := memory.NewStore()
	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	logger := newDiscardLogger()
	authService, err := NewAuthService(store, store, validation.New(store), auth.NewBcryptHasher(cfg), tokenService, logger)
	require.NoError(t, err)

	return realStack{
		store:        store,
		tokenService: tokenService,
		auth:         authService,
		gate:         NewSessionGate(tokenService, store, logger),
	}
}

func registerInput(email, username, phone string) usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:           email,
		Username:        username,
		Password:        "password123",
		PasswordConfirm: "password123",
		Profile: &usecase.ProfileInput{
			PhoneNumber: phone,
			Role:        "vendor",
		},
	}
}
