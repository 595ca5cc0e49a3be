package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is a user's mutable selection of products before checkout.
type Cart struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Items     []*CartItem
	CreatedAt time.Time
}

// CartItem is one product line in a cart. Quantity is always positive.
type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	OwnerID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Product   *Product // Loaded on read paths; nil when not preloaded.
	CreatedAt time.Time
}

// SubTotal is quantity times the current product price.
func (i *CartItem) SubTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}

	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// GrandTotal sums SubTotal over every item.
func (c *Cart) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.SubTotal())
	}

	return total
}

// IsOwnedBy reports whether userID owns the cart.
func (c *Cart) IsOwnedBy(userID uuid.UUID) bool {
	return c.OwnerID == userID
}
