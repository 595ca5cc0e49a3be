package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryInput creates or renames a category or sub-category.
type CategoryInput struct {
	Title string
}

// ProductInput carries every writable product field.
type ProductInput struct {
	Name          string
	Description   string
	Material      string
	Discount      bool
	TopDeal       bool
	Colours       []string
	Sizes         []string
	Price         decimal.Decimal
	Inventory     int
	CategoryID    uuid.UUID
	SubCategoryID *uuid.UUID
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products []*entity.Product
	Count    int64
	Page     int
	PageSize int
}

// CatalogUsecase manages categories, sub-categories and products.
type CatalogUsecase interface {
	ListCategories(ctx context.Context) ([]*entity.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	CreateCategory(ctx context.Context, input *CategoryInput) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input *CategoryInput) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListSubCategories(ctx context.Context, categoryID uuid.UUID) ([]*entity.SubCategory, error)
	CreateSubCategory(ctx context.Context, categoryID uuid.UUID, input *CategoryInput) (*entity.SubCategory, error)
	UpdateSubCategory(ctx context.Context, id uuid.UUID, input *CategoryInput) (*entity.SubCategory, error)
	DeleteSubCategory(ctx context.Context, id uuid.UUID) error

	// ListProducts returns in-stock products matching filter.
	ListProducts(ctx context.Context, filter entity.ProductFilter) (*ProductPage, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input *ProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}
