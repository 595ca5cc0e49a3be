package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderUsecase reads and administers placed orders.
type OrderUsecase interface {
	// ListOrders returns the actor's own orders, or every order for admins.
	ListOrders(ctx context.Context, actor Actor, filter entity.OrderFilter) ([]*entity.Order, error)
	GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*entity.Order, error)
	MarkDelivered(ctx context.Context, orderID uuid.UUID, delivered bool) (*entity.Order, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error

	// ReceiptQR renders the order's receipt QR code as PNG.
	ReceiptQR(ctx context.Context, actor Actor, orderID uuid.UUID) ([]byte, error)
	// ConfirmDeliveryByQR marks the order encoded in a scanned receipt as delivered.
	ConfirmDeliveryByQR(ctx context.Context, qrData string) (*entity.Order, error)
}
