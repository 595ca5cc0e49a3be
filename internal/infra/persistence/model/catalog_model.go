package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CategoryModel mirrors the 'categories' table.
type CategoryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Title     string    `gorm:"type:varchar(100);not null"`
	Slug      string    `gorm:"type:varchar(120);not null;unique"`
	CreatedAt time.Time
	UpdatedAt time.Time

	SubCategories []SubCategoryModel `gorm:"foreignKey:CategoryID"`
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}

// SubCategoryModel mirrors the 'sub_categories' table.
type SubCategoryModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_sub_category_slug"`
	Title      string    `gorm:"type:varchar(100);not null"`
	Slug       string    `gorm:"type:varchar(120);not null;uniqueIndex:idx_sub_category_slug"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (SubCategoryModel) TableName() string {
	return "sub_categories"
}

// ProductModel mirrors the 'products' table. Colours and sizes are flat JSON arrays.
// A CHECK constraint keeps inventory non-negative.
type ProductModel struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name          string                      `gorm:"type:varchar(200);not null"`
	Description   string                      `gorm:"type:text"`
	Material      string                      `gorm:"type:varchar(100)"`
	Discount      bool                        `gorm:"not null;default:false"`
	TopDeal       bool                        `gorm:"not null;default:false"`
	Colours       datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"`
	Sizes         datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"`
	Price         decimal.Decimal             `gorm:"type:numeric(10,2);not null"`
	Inventory     int                         `gorm:"not null;default:0;check:inventory >= 0"`
	CategoryID    uuid.UUID                   `gorm:"type:uuid;not null;index"`
	SubCategoryID *uuid.UUID                  `gorm:"type:uuid;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category    *CategoryModel    `gorm:"foreignKey:CategoryID"`
	SubCategory *SubCategoryModel `gorm:"foreignKey:SubCategoryID"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
