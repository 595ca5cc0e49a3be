package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Catalog persistence errors.
var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubCategoryNotFound = errors.New("sub-category not found")
	ErrCategoryInUse       = errors.New("category is referenced")
	ErrProductNotFound     = errors.New("product not found")
	// ErrInsufficientStock is returned by DecrementInventory when fewer units remain than requested.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CategoryRepository manages categories and their sub-categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListSubCategories(ctx context.Context, categoryID uuid.UUID) ([]*entity.SubCategory, error)
	FindSubCategoryByID(ctx context.Context, id uuid.UUID) (*entity.SubCategory, error)
	CreateSubCategory(ctx context.Context, sub *entity.SubCategory) error
	UpdateSubCategory(ctx context.Context, sub *entity.SubCategory) error
	DeleteSubCategory(ctx context.Context, id uuid.UUID) error
}

// ProductRepository manages products and their inventory.
type ProductRepository interface {
	// List returns one page of products matching filter and the total match count.
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementInventory atomically subtracts qty when at least qty units remain and
	// returns the product as it is after the update. It returns ErrInsufficientStock
	// without modifying anything otherwise.
	DecrementInventory(ctx context.Context, id uuid.UUID, qty int) (*entity.Product, error)
}
