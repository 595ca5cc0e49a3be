package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Order persistence errors.
var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicateTransaction is returned when an order already exists for a gateway transaction.
	ErrDuplicateTransaction = errors.New("order already exists for transaction")
)

// OrderRepository manages placed orders.
type OrderRepository interface {
	// Create persists the order together with its items.
	Create(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error)
	SetDelivered(ctx context.Context, id uuid.UUID, delivered bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReportRepository serves read-only dashboard aggregates.
type ReportRepository interface {
	// OrdersByMonth buckets orders placed in year by calendar month.
	OrdersByMonth(ctx context.Context, year int) ([]*entity.OrderPeriodSummary, error)

	// OrdersByDay buckets orders placed in [start, end) by day.
	OrdersByDay(ctx context.Context, start, end time.Time) ([]*entity.OrderPeriodSummary, error)

	// TopProducts ranks products sold in the optional window.
	TopProducts(ctx context.Context, rank entity.SalesRanking, limit int, start, end *time.Time) ([]*entity.ProductSales, error)
}
