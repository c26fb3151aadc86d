package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"identity/config"
	deliverycontext "identity/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho(buf *bytes.Buffer) *echo.Echo {
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	e := echo.New()
	e.Use(NewRequestIDMiddleware(logger).Process)
	e.Use(NewLoggerMiddleware(logger, &config.Config{}).Handle)

	return e
}

// accessLog returns the single "HTTP Request" line written to buf.
func accessLog(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var found map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["msg"] == "HTTP Request" {
			require.Nil(t, found, "more than one access log line")
			found = entry
		}
	}
	require.NotNil(t, found, "no access log line in %s", buf.String())

	return found
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEcho(&buf)

	var seenID string
	e.GET("/", func(c echo.Context) error {
		seenID = deliverycontext.RequestIDFromContext(c.Request().Context())
		deliverycontext.LoggerFromContext(c.Request().Context()).Info("inside handler")

		return c.NoContent(http.StatusNoContent)
	})

	t.Run("propagates client id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(deliverycontext.HeaderXRequestID, "client-id")
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, "client-id", rec.Header().Get(deliverycontext.HeaderXRequestID))
		assert.Equal(t, "client-id", seenID)
		assert.Contains(t, buf.String(), `"msg":"inside handler"`)
		assert.Equal(t, "client-id", accessLog(t, &buf)["request_id"])
	})

	t.Run("generates id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
		assert.Equal(t, rec.Header().Get(deliverycontext.HeaderXRequestID), seenID)
	})

	t.Run("replaces malformed client id", func(t *testing.T) {
		for _, clientID := range []string{strings.Repeat("x", 500), "abc def", `id"injected`} {
			buf.Reset()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(deliverycontext.HeaderXRequestID, clientID)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			got := rec.Header().Get(deliverycontext.HeaderXRequestID)
			assert.NotEqual(t, clientID, got)
			assert.True(t, deliverycontext.ValidRequestID(got))
			assert.Equal(t, got, seenID)
			assert.NotContains(t, buf.String(), clientID)
		}
	})
}

func TestLoggerMiddleware_StatusAndLevel(t *testing.T) {
	tests := []struct {
		name      string
		handler   echo.HandlerFunc
		wantCode  int
		wantLevel string
		wantError bool
	}{
		{
			name:      "success",
			handler:   func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
			wantCode:  http.StatusNoContent,
			wantLevel: "INFO",
		},
		{
			name:      "client error returned",
			handler:   func(echo.Context) error { return echo.NewHTTPError(http.StatusUnauthorized, "nope") },
			wantCode:  http.StatusUnauthorized,
			wantLevel: "WARN",
			wantError: true,
		},
		{
			name:      "unexpected error returned",
			handler:   func(echo.Context) error { return errors.New("boom") },
			wantCode:  http.StatusInternalServerError,
			wantLevel: "ERROR",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := newTestEcho(&buf)
			e.GET("/", tt.handler)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			entry := accessLog(t, &buf)
			assert.Equal(t, float64(tt.wantCode), entry["status"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			if tt.wantError {
				assert.NotEmpty(t, entry["error"])
			} else {
				assert.NotContains(t, entry, "error")
			}
		})
	}
}

func TestLoggerMiddleware_UnknownRoute(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEcho(&buf)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	entry := accessLog(t, &buf)
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Equal(t, "WARN", entry["level"])
}
