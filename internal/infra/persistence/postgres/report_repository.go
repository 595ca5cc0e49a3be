package postgres

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type periodRow struct {
	Period     string
	OrderCount int64
	Revenue    decimal.Decimal
}

type productSalesRow struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int64
	Revenue     decimal.Decimal
}

// reportRepository serves dashboard aggregates from read replicas when configured.
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository is the constructor for reportRepository.
func NewReportRepository(db *gorm.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (repo *reportRepository) read(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).Clauses(dbresolver.Read)
}

func (repo *reportRepository) OrdersByMonth(ctx context.Context, year int) ([]*entity.OrderPeriodSummary, error) {
	var rows []periodRow
	err := repo.read(ctx).
		Model(&model.OrderModel{}).
		Select("to_char(date_trunc('month', placed_at), 'YYYY-MM') AS period, COUNT(*) AS order_count, COALESCE(SUM(total_price), 0) AS revenue").
		Where("EXTRACT(YEAR FROM placed_at) = ?", year).
		Group("period").
		Order("period ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate orders by month")
	}

	return toPeriodSummaries(rows), nil
}

func (repo *reportRepository) OrdersByDay(ctx context.Context, start, end time.Time) ([]*entity.OrderPeriodSummary, error) {
	var rows []periodRow
	err := repo.read(ctx).
		Model(&model.OrderModel{}).
		Select("to_char(date_trunc('day', placed_at), 'YYYY-MM-DD') AS period, COUNT(*) AS order_count, COALESCE(SUM(total_price), 0) AS revenue").
		Where("placed_at >= ? AND placed_at < ?", start, end).
		Group("period").
		Order("period ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate orders by day")
	}

	return toPeriodSummaries(rows), nil
}

func (repo *reportRepository) TopProducts(ctx context.Context, rank entity.SalesRanking, limit int, start, end *time.Time) ([]*entity.ProductSales, error) {
	orderBy := "quantity DESC"
	if rank == entity.RankByRevenue {
		orderBy = "revenue DESC"
	}

	query := repo.read(ctx).
		Table("order_items AS oi").
		Select("oi.product_id AS product_id, p.name AS product_name, SUM(oi.quantity) AS quantity, SUM(oi.quantity * oi.price) AS revenue").
		Joins("JOIN orders AS o ON o.id = oi.order_id").
		Joins("JOIN products AS p ON p.id = oi.product_id")

	if start != nil {
		query = query.Where("o.placed_at >= ?", *start)
	}
	if end != nil {
		query = query.Where("o.placed_at < ?", *end)
	}

	var rows []productSalesRow
	err := query.
		Group("oi.product_id, p.name").
		Order(orderBy).
		Order("oi.product_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to rank products")
	}

	sales := make([]*entity.ProductSales, 0, len(rows))
	for _, row := range rows {
		sales = append(sales, &entity.ProductSales{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
			Revenue:     row.Revenue,
		})
	}

	return sales, nil
}

func toPeriodSummaries(rows []periodRow) []*entity.OrderPeriodSummary {
	summaries := make([]*entity.OrderPeriodSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, &entity.OrderPeriodSummary{
			Period:     row.Period,
			OrderCount: row.OrderCount,
			Revenue:    row.Revenue,
		})
	}

	return summaries
}
