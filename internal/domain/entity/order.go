package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the immutable record of a completed purchase. Only Delivered changes after creation.
type Order struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Address       string
	TotalPrice    decimal.Decimal
	Delivered     bool
	TransactionID string // Gateway transaction reference; unique across orders when set.
	Items         []*OrderItem
	PlacedAt      time.Time
}

// OrderItem captures product, quantity and the price at purchase time.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	OwnerID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
}

// LineTotal is quantity times the captured price.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SumItems recomputes the order total from its items.
func (o *Order) SumItems() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}

	return total
}

// OrderFilter narrows order listings. OwnerID nil means every owner.
type OrderFilter struct {
	OwnerID   *uuid.UUID
	Month     int
	Year      int
	StartDate *time.Time
	EndDate   *time.Time
}

// OrderPeriodSummary aggregates orders that fall into one reporting bucket.
type OrderPeriodSummary struct {
	Period     string // "2024-05" for monthly buckets, "2024-05-17" for daily buckets.
	OrderCount int64
	Revenue    decimal.Decimal
}

// ProductSales ranks a product by units or revenue sold.
type ProductSales struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int64
	Revenue     decimal.Decimal
}

// SalesRanking selects the metric top products are ranked by.
type SalesRanking string

const (
	RankByQuantity SalesRanking = "quantity"
	RankByRevenue  SalesRanking = "revenue"
)
