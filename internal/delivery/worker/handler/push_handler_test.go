package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/constants"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/infra/pubsub"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailEventHandler struct {
	mock.Mock
}

func (m *mockMailEventHandler) HandleMailEvent(ctx context.Context, event *service.MailEvent) error {
	return m.Called(ctx, event).Error(0)
}

func newTestPushHandler(t *testing.T) (*PushHandler, *mockMailEventHandler) {
	t.Helper()

	mh := &mockMailEventHandler{}
	h := NewPushHandler(PushHandlerParams{
		Config:  &config.Config{},
		Logger:  slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		Handler: mh,
	})

	return h, mh
}

func push(t *testing.T, h *PushHandler, body []byte) int {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.HandlePush(e.NewContext(req, rec)))

	return rec.Code
}

func envelope(t *testing.T, event *service.MailEvent) []byte {
	t.Helper()

	env, err := pubsub.NewPushEnvelope(event)
	require.NoError(t, err)
	body, err := json.Marshal(env)
	require.NoError(t, err)

	return body
}

func TestHandlePush_DeliversEvent(t *testing.T) {
	h, mh := newTestPushHandler(t)
	event := &service.MailEvent{
		RequestID: "req-42",
		EventID:   "evt-1",
		Kind:      "order_placed",
		To:        []string{"ada@example.com"},
		Subject:   "Your order",
		Body:      "Thanks",
	}

	mh.On("HandleMailEvent", mock.MatchedBy(func(ctx context.Context) bool {
		return deliverycontext.GetRequestIDFromContext(ctx) == "req-42"
	}), event).Return(nil).Once()

	assert.Equal(t, http.StatusOK, push(t, h, envelope(t, event)))
	mh.AssertExpectations(t)
}

func TestHandlePush_StatusByFailure(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"transient provider failure is redelivered", errors.WithStack(domainerrors.ErrMailDelivery), http.StatusServiceUnavailable},
		{"invalid event is dropped", errors.WithStack(domainerrors.ErrValidationFailed), http.StatusOK},
		{"unknown error is dropped", errors.New("boom"), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mh := newTestPushHandler(t)
			mh.On("HandleMailEvent", mock.Anything, mock.Anything).Return(tt.err).Once()

			assert.Equal(t, tt.status, push(t, h, envelope(t, &service.MailEvent{EventID: "evt-2", To: []string{"a@b.c"}})))
		})
	}
}

func TestHandlePush_MalformedMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"bad base64", `{"message":{"data":"%%%"}}`},
		{"payload not json", `{"message":{"data":"bm90LWpzb24="}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mh := newTestPushHandler(t)

			assert.Equal(t, http.StatusBadRequest, push(t, h, []byte(tt.body)))
			mh.AssertNotCalled(t, "HandleMailEvent", mock.Anything, mock.Anything)
		})
	}
}

func TestHandlePush_RejectsUnverifiedToken(t *testing.T) {
	h, mh := newTestPushHandler(t)
	h.verify = func(*http.Request) error { return errors.New("no token") }

	assert.Equal(t, http.StatusUnauthorized, push(t, h, envelope(t, &service.MailEvent{EventID: "evt-3"})))
	mh.AssertNotCalled(t, "HandleMailEvent", mock.Anything, mock.Anything)
}

func TestNewPushHandler_VerifiesOnlyGoogleOutsideDevelop(t *testing.T) {
	newCfg := func(env, provider string) *config.Config {
		cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: provider}}
		cfg.Env.Env = env

		return cfg
	}

	h := NewPushHandler(PushHandlerParams{Config: newCfg("production", constants.PubSubProviderGoogle)})
	assert.NotNil(t, h.verify)

	h = NewPushHandler(PushHandlerParams{Config: newCfg(constants.EnvDevelop, constants.PubSubProviderGoogle)})
	assert.Nil(t, h.verify)

	h = NewPushHandler(PushHandlerParams{Config: newCfg("production", constants.PubSubProviderLocal)})
	assert.Nil(t, h.verify)
}

func TestVerifyPubSubToken_MissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader("{}"))

	assert.Error(t, verifyPubSubToken(req))
}
