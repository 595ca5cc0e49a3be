package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayInput opens a payment session for a cart.
type PayInput struct {
	UserID  uuid.UUID
	CartID  uuid.UUID
	Address string
}

// PayOutput points the buyer at the hosted payment page.
type PayOutput struct {
	PaymentLink   string
	TxRef         string
	Amount        decimal.Decimal
	CheckoutToken string
}

// ConfirmPaymentInput is the gateway redirect back to the storefront.
type ConfirmPaymentInput struct {
	CartID        uuid.UUID
	Token         string
	TransactionID string
	Status        string
}

// PlaceOrderInput converts a cart into an order.
type PlaceOrderInput struct {
	UserID        uuid.UUID
	CartID        uuid.UUID
	Address       string
	TransactionID string
}

// CheckoutUsecase moves a cart through payment into an order.
type CheckoutUsecase interface {
	Pay(ctx context.Context, input *PayInput) (*PayOutput, error)
	ConfirmPayment(ctx context.Context, input *ConfirmPaymentInput) (*entity.Order, error)
	PlaceOrder(ctx context.Context, input *PlaceOrderInput) (*entity.Order, error)
}
