package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/config"
	"storefront/internal/delivery/api/response"
	"storefront/internal/delivery/api/validator"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = NewErrorMiddleware(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))).HandleHTTPError

	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)

	return body
}

func TestHandleHTTPError(t *testing.T) {
	type input struct {
		Email string `json:"email" validate:"required,email"`
	}

	tests := []struct {
		name        string
		err         func(c echo.Context) error
		wantStatus  int
		wantCode    string
		wantDetails any
	}{
		{
			name:        "app error keeps details",
			err:         func(echo.Context) error { return domainerrors.ErrInsufficientInventory.WithDetails("Shirt: 1 left") },
			wantStatus:  http.StatusConflict,
			wantCode:    "INSUFFICIENT_INVENTORY",
			wantDetails: "Shirt: 1 left",
		},
		{
			name:       "forbidden hides details",
			err:        func(echo.Context) error { return domainerrors.ErrForbidden.WithDetails("owner mismatch") },
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:        "validation failure",
			err:         func(c echo.Context) error { return c.Validate(&input{Email: "x"}) },
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALIDATION_FAILED",
			wantDetails: map[string]any{"email": "must be a valid email address"},
		},
		{
			name:       "echo http error",
			err:        func(echo.Context) error { return echo.NewHTTPError(http.StatusMethodNotAllowed) },
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "METHOD_NOT_ALLOWED",
		},
		{
			name:       "unknown error",
			err:        func(echo.Context) error { return assert.AnError },
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			e.GET("/x", tt.err)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

			body := decodeError(t, rec)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantDetails, body.Error.Details)
		})
	}
}

func newAuthMiddleware(t *testing.T) (service.TokenService, *AuthMiddleware) {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "access-secret"
	cfg.SecretKey.Refresh = "refresh-secret"
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return tokens, NewAuthMiddleware(tokens)
}

func TestAuthenticate(t *testing.T) {
	tokens, mw := newAuthMiddleware(t)

	userID := uuid.New()
	access, refresh, err := tokens.GenerateTokens(userID, entity.Roles{entity.RoleUser, entity.RoleAdmin}.ToStrings())
	require.NoError(t, err)

	e := newTestEcho()
	e.GET("/me", func(c echo.Context) error {
		actor, ok := GetActor(c)
		require.True(t, ok)

		return c.JSON(http.StatusOK, map[string]any{"id": actor.UserID, "admin": actor.IsAdmin})
	}, mw.Authenticate)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid access token", header: "Bearer " + access, wantStatus: http.StatusOK},
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Token " + access, wantStatus: http.StatusUnauthorized},
		{name: "refresh token rejected", header: "Bearer " + refresh, wantStatus: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Body.String(), userID.String())
				assert.Contains(t, rec.Body.String(), `"admin":true`)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	_, mw := newAuthMiddleware(t)
	e := newTestEcho()

	withRoles := func(roles entity.Roles) echo.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				c.Set(contextKeyUserID, uuid.New())
				c.Set(contextKeyRoles, roles)

				return next(c)
			}
		}
	}
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	e.GET("/admin", ok, withRoles(entity.Roles{entity.RoleUser, entity.RoleAdmin}), mw.RequireRole(entity.RoleAdmin))
	e.GET("/user", ok, withRoles(entity.Roles{entity.RoleUser}), mw.RequireRole(entity.RoleAdmin))
	e.GET("/anon", ok, mw.RequireRole(entity.RoleAdmin))

	for path, want := range map[string]int{
		"/admin": http.StatusNoContent,
		"/user":  http.StatusForbidden,
		"/anon":  http.StatusForbidden,
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestHTTPMetrics_CountsRoutesAndErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(reg)
	require.NoError(t, err)

	e := newTestEcho()
	e.Use(m.Handle)
	e.GET("/carts/:id", func(c echo.Context) error { return domainerrors.ErrCartNotFound })

	for range 2 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/carts/abc", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.requests.WithLabelValues("/carts/:id", http.MethodGet, "404")), 0)

	_, err = NewHTTPMetrics(reg)
	assert.Error(t, err)
}
