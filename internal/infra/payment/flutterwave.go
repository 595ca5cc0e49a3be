// Package payment talks to the hosted payment gateway.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	defaultBaseURL  = "https://api.flutterwave.com/v3"
	defaultCurrency = "NGN"
	defaultTimeout  = 15 * time.Second

	// maxErrorBody caps how much of a failed response is echoed into logs.
	maxErrorBody = 1024
)

type flutterwaveCustomer struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber,omitempty"`
	Name        string `json:"name,omitempty"`
}

type flutterwaveCustomizations struct {
	Title string `json:"title,omitempty"`
	Logo  string `json:"logo,omitempty"`
}

type flutterwavePaymentRequest struct {
	TxRef          string                    `json:"tx_ref"`
	Amount         string                    `json:"amount"`
	Currency       string                    `json:"currency"`
	RedirectURL    string                    `json:"redirect_url"`
	Meta           map[string]string         `json:"meta,omitempty"`
	Customer       flutterwaveCustomer       `json:"customer"`
	Customizations flutterwaveCustomizations `json:"customizations"`
}

type flutterwavePaymentResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

type flutterwaveGateway struct {
	baseURL        string
	secretKey      string
	currency       string
	customizations flutterwaveCustomizations
	client         *http.Client
	logger         *slog.Logger
}

// NewFlutterwaveGateway builds a PaymentGateway for the Flutterwave v3 standard checkout API.
func NewFlutterwaveGateway(cfg *config.Config, logger *slog.Logger) (service.PaymentGateway, error) {
	paymentCfg := cfg.Payment
	if paymentCfg == nil || paymentCfg.SecretKey == "" {
		return nil, errors.New("payment secret key must be provided")
	}

	baseURL := strings.TrimRight(paymentCfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	currency := paymentCfg.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	timeout := paymentCfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &flutterwaveGateway{
		baseURL:   baseURL,
		secretKey: paymentCfg.SecretKey,
		currency:  currency,
		customizations: flutterwaveCustomizations{
			Title: paymentCfg.Title,
			Logo:  paymentCfg.LogoURL,
		},
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}, nil
}

// InitiatePayment opens a hosted payment page. Any transport failure, non-2xx status or
// response without a link is reported as ErrPaymentGateway.
func (g *flutterwaveGateway) InitiatePayment(ctx context.Context, req *service.PaymentRequest) (*service.PaymentSession, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, g.logger)

	currency := req.Currency
	if currency == "" {
		currency = g.currency
	}

	payload := flutterwavePaymentRequest{
		TxRef:       req.TxRef,
		Amount:      req.Amount.StringFixed(2),
		Currency:    currency,
		RedirectURL: req.RedirectURL,
		Meta:        req.Meta,
		Customer: flutterwaveCustomer{
			Email:       req.Customer.Email,
			PhoneNumber: req.Customer.PhoneNumber,
			Name:        req.Customer.Name,
		},
		Customizations: g.customizations,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal payment request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create payment request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		logger.Error("Payment gateway unreachable",
			slog.String("tx_ref", req.TxRef),
			slog.Any("error", err),
		)

		return nil, domainerrors.ErrPaymentGateway.WithDetails("payment provider unreachable")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domainerrors.ErrPaymentGateway.WithDetails("failed to read payment provider response")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logger.Error("Payment gateway rejected request",
			slog.String("tx_ref", req.TxRef),
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncate(respBody, maxErrorBody)),
		)

		return nil, domainerrors.ErrPaymentGateway.WithDetails("payment initiation failed")
	}

	var parsed flutterwavePaymentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, domainerrors.ErrPaymentGateway.WithDetails("malformed payment provider response")
	}

	if parsed.Status != "success" || parsed.Data.Link == "" {
		logger.Error("Payment gateway returned no checkout link",
			slog.String("tx_ref", req.TxRef),
			slog.String("status", parsed.Status),
			slog.String("message", parsed.Message),
		)

		return nil, domainerrors.ErrPaymentGateway.WithDetails("payment initiation failed")
	}

	logger.Info("Payment session created", slog.String("tx_ref", req.TxRef))

	return &service.PaymentSession{Link: parsed.Data.Link}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}

	return string(b[:n])
}
