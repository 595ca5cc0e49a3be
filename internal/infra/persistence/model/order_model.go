package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel mirrors the 'orders' table. TransactionID is unique when present so a
// replayed payment confirmation can never create a second order.
type OrderModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OwnerID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Address       string          `gorm:"type:varchar(200);not null"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Delivered     bool            `gorm:"not null;default:false"`
	TransactionID *string         `gorm:"type:varchar(100);uniqueIndex"`
	PlacedAt      time.Time       `gorm:"not null;index;autoCreateTime"`

	Items []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. Price is captured at purchase time.
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	OwnerID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null;check:quantity > 0"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}
