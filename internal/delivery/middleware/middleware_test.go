package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	domainerrors "storefront/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	e := echo.New()
	mw := NewRequestIDMiddleware(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	var seenInCtx string
	h := mw.Process(func(c echo.Context) error {
		seenInCtx = deliverycontext.GetRequestIDFromContext(c.Request().Context())
		assert.NotNil(t, deliverycontext.GetLogger(c.Request().Context()))

		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))

	got := rec.Header().Get(deliverycontext.HeaderXRequestID)
	assert.NotEmpty(t, got)
	assert.Equal(t, got, seenInCtx)
}

func TestRequestID_HonoursCallerValue(t *testing.T) {
	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "plain", header: "abc-123", keep: true},
		{name: "with space", header: "abc 123", keep: false},
		{name: "too long", header: strings.Repeat("a", maxRequestIDLength+1), keep: false},
	}

	e := echo.New()
	mw := NewRequestIDMiddleware(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	h := mw.Process(func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(deliverycontext.HeaderXRequestID, tt.header)
			rec := httptest.NewRecorder()
			require.NoError(t, h(e.NewContext(req, rec)))

			got := rec.Header().Get(deliverycontext.HeaderXRequestID)
			if tt.keep {
				assert.Equal(t, tt.header, got)
			} else {
				assert.NotEqual(t, tt.header, got)
				assert.NotEmpty(t, got)
			}
		})
	}
}

func TestLogger_LogsStatusOfReturnedError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	cfg := &config.Config{}
	cfg.Env.Debug = true

	e := echo.New()
	mw := NewLoggerMiddleware(logger, cfg, "/health")
	h := mw.Handle(func(c echo.Context) error { return domainerrors.ErrCartNotFound })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/carts/x", nil)
	rec := httptest.NewRecorder()
	err := h(e.NewContext(req, rec))
	require.Error(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "HTTP Request", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.EqualValues(t, http.StatusNotFound, line["status"])
}

func TestLogger_SkipsConfiguredPathsAndNonDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	debugCfg := &config.Config{}
	debugCfg.Env.Debug = true
	h := NewLoggerMiddleware(logger, debugCfg, "/health").Handle(next)
	require.NoError(t, h(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), httptest.NewRecorder())))

	quiet := NewLoggerMiddleware(logger, &config.Config{}).Handle(next)
	require.NoError(t, quiet(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil), httptest.NewRecorder())))

	assert.Empty(t, buf.String())
}
