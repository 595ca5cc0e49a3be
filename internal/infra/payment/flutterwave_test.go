package payment

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, baseURL string, timeout time.Duration) service.PaymentGateway {
	t.Helper()

	gateway, err := NewFlutterwaveGateway(&config.Config{
		Payment: &config.PaymentConfig{
			BaseURL:   baseURL,
			SecretKey: "FLWSECK_TEST-secret",
			Timeout:   timeout,
			Title:     "Storefront",
			LogoURL:   "https://cdn.example.com/logo.png",
		},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	return gateway
}

func newPaymentRequest() *service.PaymentRequest {
	return &service.PaymentRequest{
		TxRef:       "tx-123",
		Amount:      decimal.RequireFromString("1500.5"),
		RedirectURL: "https://shop.example.com/api/v1/payments/confirm?c_id=1&token=t",
		Customer: service.PaymentCustomer{
			Email:       "ada@example.com",
			PhoneNumber: "08000000000",
			Name:        "Lovelace Ada",
		},
		Meta: map[string]string{"consumer_id": "u-1"},
	}
}

func TestFlutterwaveGateway_InitiatePayment(t *testing.T) {
	var got flutterwavePaymentRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments", r.URL.Path)
		assert.Equal(t, "Bearer FLWSECK_TEST-secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","message":"Hosted Link","data":{"link":"https://checkout.flutterwave.com/v3/hosted/pay/abc"}}`))
	}))
	defer srv.Close()

	session, err := newTestGateway(t, srv.URL, time.Second).InitiatePayment(context.Background(), newPaymentRequest())
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.flutterwave.com/v3/hosted/pay/abc", session.Link)

	assert.Equal(t, "tx-123", got.TxRef)
	assert.Equal(t, "1500.50", got.Amount)
	assert.Equal(t, "NGN", got.Currency)
	assert.Equal(t, "ada@example.com", got.Customer.Email)
	assert.Equal(t, "08000000000", got.Customer.PhoneNumber)
	assert.Equal(t, "Storefront", got.Customizations.Title)
	assert.Equal(t, "u-1", got.Meta["consumer_id"])
}

func TestFlutterwaveGateway_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non 2xx status", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"status":"error","message":"Invalid currency"}`))
		}},
		{"malformed body", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}},
		{"missing link", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":"success","data":{}}`))
		}},
		{"timeout", func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"status":"success","data":{"link":"late"}}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newTestGateway(t, srv.URL, 50*time.Millisecond).InitiatePayment(context.Background(), newPaymentRequest())
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrPaymentGateway)
			assert.Equal(t, domainerrors.KindExternal, domainerrors.KindOf(err))
		})
	}
}

func TestNewFlutterwaveGateway_RequiresSecret(t *testing.T) {
	_, err := NewFlutterwaveGateway(&config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
