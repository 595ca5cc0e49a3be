package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups products at the top level of the storefront navigation.
type Category struct {
	ID            uuid.UUID
	Title         string
	Slug          string
	SubCategories []*SubCategory
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SubCategory is a second-level grouping inside a Category.
type SubCategory struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Title      string
	Slug       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Product is a sellable item. Inventory is never negative.
type Product struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Material      string
	Discount      bool
	TopDeal       bool
	Colours       []string
	Sizes         []string
	Price         decimal.Decimal // Fixed-point, two decimal places.
	Inventory     int
	CategoryID    uuid.UUID
	SubCategoryID *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InStock reports whether at least qty units are available.
func (p *Product) InStock(qty int) bool {
	return qty > 0 && p.Inventory >= qty
}

// ProductOrdering selects the sort order of a product listing.
type ProductOrdering string

const (
	ProductOrderingNewest    ProductOrdering = ""
	ProductOrderingPriceAsc  ProductOrdering = "price"
	ProductOrderingPriceDesc ProductOrdering = "-price"
)

// ProductFilter narrows a product listing. Zero values mean "no constraint".
type ProductFilter struct {
	CategoryID      *uuid.UUID
	CategoryName    string
	SubCategoryID   *uuid.UUID
	SubCategoryName string
	PriceGT         *decimal.Decimal
	PriceLT         *decimal.Decimal
	Search          string
	Ordering        ProductOrdering
	InStockOnly     bool
	Page            int
	PageSize        int
}

// Offset returns the row offset for the filter's page.
func (f ProductFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}

	return (f.Page - 1) * f.PageSize
}
