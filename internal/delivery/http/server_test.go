package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"identity/config"
	deliverymiddleware "identity/internal/delivery/middleware"
	httpmiddleware "identity/internal/delivery/http/middleware"
	"identity/internal/delivery/http/router"
	"identity/internal/delivery/http/router/handler"
	"identity/internal/domain/entity"
	"identity/internal/infra/auth"
	"identity/internal/infra/persistence/memory"
	"identity/internal/usecase/impl"
	"identity/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	echo  *echo.Echo
	store *memory.Store
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	cfg := &config.Config{
		SecretKey: config.SecretKeyConfig{
			Access:  "test_access_secret_key_very_long_for_testing",
			Refresh: "test_refresh_secret_key_very_long_for_testing",
		},
		Auth: &config.AuthConfig{
			BcryptCost:      bcrypt.MinCost,
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: time.Hour,
			Issuer:          "identity-test",
		},
	}
	cfg.HTTP.MaxRequestBodySize = "100KB"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	authUsecase, err := impl.NewAuthService(store, store, validation.New(store), auth.NewBcryptHasher(cfg), tokenService, logger)
	require.NoError(t, err)
	gate := impl.NewSessionGate(tokenService, store, logger)

	e := NewEcho(HTTPParams{
		Config: cfg,
		Logger: logger,
		RouterParams: router.RouterParams{
			AuthHandler:    handler.NewAuthHandler(authUsecase, logger),
			AuthMiddleware: httpmiddleware.NewAuthMiddleware(gate),
		},
		ErrorMiddleware:  httpmiddleware.NewErrorMiddleware(logger),
		RequestID:        deliverymiddleware.NewRequestIDMiddleware(logger),
		LoggerMiddleware: deliverymiddleware.NewLoggerMiddleware(logger, cfg),
	})

	return testServer{echo: e, store: store}
}

func (s testServer) do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}

	return rec, decoded
}

const registerBody = `{
	"email": "a@b.com",
	"username": "abc",
	"password": "password123",
	"password_confirm": "password123",
	"profile": {"phone_number": "555-123-4567", "role": "vendor"}
}`

func TestRegister_Created(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodPost, "/register", registerBody, "")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "User registered successfully", body["message"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "a@b.com", user["email"])
	assert.Equal(t, "abc", user["username"])
	assert.Equal(t, true, user["is_active"])
	assert.Equal(t, false, user["is_verified"])
	assert.NotEmpty(t, user["id"])
	assert.NotEmpty(t, user["joined_at"])
	assert.NotContains(t, user, "password_hash")

	profile := user["profile"].(map[string]any)
	assert.Equal(t, "vendor", profile["role"])
	assert.Equal(t, "5551234567", profile["phone_number"])
	assert.Nil(t, profile["date_of_birth"])

	tokens := body["tokens"].(map[string]any)
	assert.NotEmpty(t, tokens["access"])
	assert.NotEmpty(t, tokens["refresh"])
	assert.Equal(t, 1, srv.store.Count())
}

func TestRegister_ValidationFailed(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodPost, "/register", `{
		"email": "not-an-email",
		"username": "abc",
		"password": "password123",
		"password_confirm": "password999",
		"profile": {"phone_number": "555-123-4567", "role": "janitor"}
	}`, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", body["error"])

	details := body["details"].(map[string]any)
	assert.Equal(t, []any{validation.MsgInvalidEmail}, details["email"])
	assert.Equal(t, []any{validation.MsgPasswordMismatch}, details["password_confirm"])
	assert.Equal(t, []any{validation.MsgInvalidRole}, details["profile.role"])
	assert.NotContains(t, details, "username")
	assert.Equal(t, 0, srv.store.Count())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodPost, "/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := srv.do(t, http.MethodPost, "/register", `{
		"email": "A@B.com",
		"username": "other",
		"password": "password123",
		"password_confirm": "password123",
		"profile": {"phone_number": "555-000-0000"}
	}`, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	details := body["details"].(map[string]any)
	assert.Equal(t, []any{validation.MsgEmailTaken}, details["email"])
	assert.Equal(t, 1, srv.store.Count())
}

func TestRegister_MalformedBody(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodPost, "/register", `{"email": `, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", body["error"])
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)
	rec, _ := srv.do(t, http.MethodPost, "/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("success", func(t *testing.T) {
		rec, body := srv.do(t, http.MethodPost, "/login", `{"email": "A@B.COM", "password": "password123"}`, "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Login successful", body["message"])
		assert.Equal(t, "abc", body["user"].(map[string]any)["username"])
		assert.NotEmpty(t, body["tokens"].(map[string]any)["access"])
	})

	t.Run("wrong password and unknown email look alike", func(t *testing.T) {
		wrongRec, wrongBody := srv.do(t, http.MethodPost, "/login", `{"email": "a@b.com", "password": "nope-nope"}`, "")
		unknownRec, unknownBody := srv.do(t, http.MethodPost, "/login", `{"email": "x@y.com", "password": "password123"}`, "")

		assert.Equal(t, http.StatusBadRequest, wrongRec.Code)
		assert.Equal(t, wrongRec.Code, unknownRec.Code)
		assert.Equal(t, wrongBody, unknownBody)
		assert.Equal(t, "Authentication failed", wrongBody["error"])
	})

	t.Run("missing fields", func(t *testing.T) {
		rec, body := srv.do(t, http.MethodPost, "/login", `{"email": "a@b.com"}`, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		details := body["details"].(map[string]any)
		assert.Equal(t, []any{validation.MsgLoginFieldsMissing}, details["non_field_errors"])
	})
}

func TestLogin_Deactivated(t *testing.T) {
	srv := newTestServer(t)

	hash, err := auth.NewBcryptHasherWithCost(bcrypt.MinCost).Hash("password123")
	require.NoError(t, err)
	account := entity.NewAccount("off@b.com", "off", hash, &entity.Profile{PhoneNumber: "5550000000"})
	account.IsActive = false
	require.NoError(t, srv.store.CreateAccountWithProfile(t.Context(), account))

	rec, body := srv.do(t, http.MethodPost, "/login", `{"email": "off@b.com", "password": "password123"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	details := body["details"].(map[string]any)
	assert.Equal(t, []any{"Your account has been deactivated. Please contact support."}, details["non_field_errors"])
}

func TestMe(t *testing.T) {
	srv := newTestServer(t)
	_, registered := srv.do(t, http.MethodPost, "/register", registerBody, "")
	tokens := registered["tokens"].(map[string]any)

	t.Run("with access token", func(t *testing.T) {
		rec, body := srv.do(t, http.MethodGet, "/me", "", tokens["access"].(string))

		require.Equal(t, http.StatusOK, rec.Code)
		user := body["user"].(map[string]any)
		assert.Equal(t, "a@b.com", user["email"])
		assert.Equal(t, registered["user"].(map[string]any)["id"], user["id"])
	})

	tests := []struct {
		name  string
		token string
	}{
		{name: "no token", token: ""},
		{name: "refresh token", token: tokens["refresh"].(string)},
		{name: "garbage", token: "garbage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := srv.do(t, http.MethodGet, "/me", "", tt.token)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.NotEmpty(t, body["error"])
			assert.NotContains(t, body, "user")
		})
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodGet, "/nope", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", body["error"])
}
