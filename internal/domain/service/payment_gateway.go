package service

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentCustomer identifies the payer to the gateway.
type PaymentCustomer struct {
	Email       string
	PhoneNumber string
	Name        string
}

// PaymentRequest opens a hosted payment session.
type PaymentRequest struct {
	TxRef       string
	Amount      decimal.Decimal
	Currency    string
	RedirectURL string
	Customer    PaymentCustomer
	Meta        map[string]string
}

// PaymentSession is the hosted page the buyer is sent to.
type PaymentSession struct {
	Link string
}

// PaymentGateway opens hosted payment sessions with an external provider.
// Implementations must bound every call with a timeout.
type PaymentGateway interface {
	InitiatePayment(ctx context.Context, req *PaymentRequest) (*PaymentSession, error)
}
