package impl

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubReportRepo records the arguments it was called with.
type stubReportRepo struct {
	year       int
	start, end time.Time
	rank       entity.SalesRanking
	limit      int
}

func (r *stubReportRepo) OrdersByMonth(_ context.Context, year int) ([]*entity.OrderPeriodSummary, error) {
	r.year = year

	return []*entity.OrderPeriodSummary{{Period: "2024-05", OrderCount: 2}}, nil
}

func (r *stubReportRepo) OrdersByDay(_ context.Context, start, end time.Time) ([]*entity.OrderPeriodSummary, error) {
	r.start, r.end = start, end

	return nil, nil
}

func (r *stubReportRepo) TopProducts(_ context.Context, rank entity.SalesRanking, limit int, _, _ *time.Time) ([]*entity.ProductSales, error) {
	r.rank, r.limit = rank, limit

	return nil, nil
}

func createTestReportService(repo *stubReportRepo) *reportService {
	svc := NewReportService(ReportServiceParams{ReportRepo: repo, Logger: discardLogger()}).(*reportService)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }

	return svc
}

func TestReportService_OrdersByMonth(t *testing.T) {
	repo := &stubReportRepo{}
	svc := createTestReportService(repo)
	ctx := context.Background()

	summaries, err := svc.OrdersByMonth(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2024, repo.year, "zero year means the current year")
	assert.Len(t, summaries, 1)

	_, err = svc.OrdersByMonth(ctx, 1999)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestReportService_OrdersByDateRange_IncludesEndDay(t *testing.T) {
	repo := &stubReportRepo{}
	svc := createTestReportService(repo)
	ctx := context.Background()

	start := time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC)
	end := time.Date(2024, 5, 3, 8, 0, 0, 0, time.UTC)

	_, err := svc.OrdersByDateRange(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), repo.start)
	assert.Equal(t, time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC), repo.end)

	_, err = svc.OrdersByDateRange(ctx, end, start.AddDate(0, 0, -2))
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestReportService_TopProducts_Defaults(t *testing.T) {
	repo := &stubReportRepo{}
	svc := createTestReportService(repo)
	ctx := context.Background()

	_, err := svc.TopProducts(ctx, &usecase.TopProductsInput{})
	require.NoError(t, err)
	assert.Equal(t, entity.RankByQuantity, repo.rank)
	assert.Equal(t, 10, repo.limit)

	_, err = svc.TopProducts(ctx, &usecase.TopProductsInput{RankBy: entity.RankByRevenue, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, entity.RankByRevenue, repo.rank)
	assert.Equal(t, 100, repo.limit)

	_, err = svc.TopProducts(ctx, &usecase.TopProductsInput{RankBy: "margin"})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}
