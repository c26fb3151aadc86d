// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "identity/internal/delivery/context"
	"identity/internal/delivery/http/response"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// registerRequest is the JSON body of POST /register.
type registerRequest struct {
	Email           string          `json:"email"`
	Username        string          `json:"username"`
	Password        string          `json:"password"`
	PasswordConfirm string          `json:"password_confirm"`
	Profile         *profileRequest `json:"profile"`
}

type profileRequest struct {
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
	DateOfBirth string `json:"date_of_birth"`
}

// loginRequest is the JSON body of POST /login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *registerRequest) toInput() usecase.RegisterInput {
	input := usecase.RegisterInput{
		Email:           r.Email,
		Username:        r.Username,
		Password:        r.Password,
		PasswordConfirm: r.PasswordConfirm,
	}
	if r.Profile != nil {
		input.Profile = &usecase.ProfileInput{
			PhoneNumber: r.Profile.PhoneNumber,
			Role:        r.Profile.Role,
			DateOfBirth: r.Profile.DateOfBirth,
		}
	}

	return input
}

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: logger,
	}
}

// Register handles the account registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return errors.Wrap(domainerrors.ErrInvalidRequestBody, err.Error())
	}

	output, err := h.uc.Register(c.Request().Context(), req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Auth(c, http.StatusCreated, "User registered successfully", output.Account, output.Tokens)
}

// Login handles the login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errors.Wrap(domainerrors.ErrInvalidRequestBody, err.Error())
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Auth(c, http.StatusOK, "Login successful", output.Account, output.Tokens)
}

// Me returns the account resolved by the authentication middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	account, ok := deliverycontext.GetAccount(c)
	if !ok {
		h.logger.Warn("Me called without an authenticated account")

		return errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	return response.Me(c, account)
}

// HealthCheck reports that the service is up.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
