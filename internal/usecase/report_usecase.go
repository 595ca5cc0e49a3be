package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
)

// TopProductsInput selects the ranking, size and optional window of a top-products report.
type TopProductsInput struct {
	RankBy entity.SalesRanking
	Limit  int
	Start  *time.Time
	End    *time.Time
}

// ReportUsecase serves the sales dashboard.
type ReportUsecase interface {
	OrdersByMonth(ctx context.Context, year int) ([]*entity.OrderPeriodSummary, error)
	OrdersByDateRange(ctx context.Context, start, end time.Time) ([]*entity.OrderPeriodSummary, error)
	TopProducts(ctx context.Context, input *TopProductsInput) ([]*entity.ProductSales, error)
}
