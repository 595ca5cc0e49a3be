package impl

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultTopProductsLimit = 10
	maxTopProductsLimit     = 100

	minReportYear = 2000
)

type reportService struct {
	reportRepo repository.ReportRepository
	now        func() time.Time
	logger     *slog.Logger
}

// ReportServiceParams holds dependencies for ReportService, injected by Fx.
type ReportServiceParams struct {
	fx.In

	ReportRepo repository.ReportRepository
	Logger     *slog.Logger
}

// NewReportService creates a new report service instance.
func NewReportService(params ReportServiceParams) usecase.ReportUsecase {
	return &reportService{
		reportRepo: params.ReportRepo,
		now:        time.Now,
		logger:     params.Logger,
	}
}

func (s *reportService) OrdersByMonth(ctx context.Context, year int) ([]*entity.OrderPeriodSummary, error) {
	if year == 0 {
		year = s.now().Year()
	}
	if year < minReportYear || year > s.now().Year()+1 {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("year is out of range"))
	}

	summaries, err := s.reportRepo.OrdersByMonth(ctx, year)
	if err != nil {
		return nil, wrapRepoError(err, "failed to aggregate orders by month")
	}

	return summaries, nil
}

// OrdersByDateRange buckets orders by day. end is inclusive of its whole day.
func (s *reportService) OrdersByDateRange(ctx context.Context, start, end time.Time) ([]*entity.OrderPeriodSummary, error) {
	if start.IsZero() || end.IsZero() {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("start and end dates are required"))
	}

	start = truncateDay(start)
	end = truncateDay(end).AddDate(0, 0, 1)
	if !start.Before(end) {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("end date is before start date"))
	}

	summaries, err := s.reportRepo.OrdersByDay(ctx, start, end)
	if err != nil {
		return nil, wrapRepoError(err, "failed to aggregate orders by day")
	}

	return summaries, nil
}

func (s *reportService) TopProducts(ctx context.Context, input *usecase.TopProductsInput) ([]*entity.ProductSales, error) {
	rank := input.RankBy
	switch rank {
	case "":
		rank = entity.RankByQuantity
	case entity.RankByQuantity, entity.RankByRevenue:
	default:
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("rank_by must be quantity or revenue"))
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultTopProductsLimit
	}
	if limit > maxTopProductsLimit {
		limit = maxTopProductsLimit
	}

	if input.Start != nil && input.End != nil && input.End.Before(*input.Start) {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("end date is before start date"))
	}

	sales, err := s.reportRepo.TopProducts(ctx, rank, limit, input.Start, input.End)
	if err != nil {
		return nil, wrapRepoError(err, "failed to rank products")
	}

	return sales, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
