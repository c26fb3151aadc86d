package middleware

import (
	"log/slog"
	"net/http"

	deliverycontext "identity/internal/delivery/context"
	"identity/internal/delivery/http/response"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)

	if appErr, ok := errors.AsType[domainerrors.AppError](err); ok {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			logger.Error("Request failed", slog.String("code", appErr.ErrorCode()), slog.Any("error", err))
		}
		m.write(c, logger, response.AppError(c, appErr))

		return
	}

	// Echo's own errors: unknown route, wrong method, body too large.
	if httpErr, ok := errors.AsType[*echo.HTTPError](err); ok {
		message, _ := httpErr.Message.(string)
		m.write(c, logger, response.Error(c, httpErr.Code, message, nil))

		return
	}

	logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)
	m.write(c, logger, response.AppError(c, domainerrors.ErrInternalError))
}

func (m *ErrorMiddleware) write(c echo.Context, logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("Failed to write error response", slog.Any("error", err), slog.String("path", c.Request().URL.Path))
	}
}
