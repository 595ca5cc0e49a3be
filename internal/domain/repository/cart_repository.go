package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Cart persistence errors.
var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartRepository manages carts and their items.
type CartRepository interface {
	Create(ctx context.Context, cart *entity.Cart) error

	// FindByID loads the cart with its items and their products.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error)

	// FindByIDForUpdate loads and row-locks the cart with its items until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Cart, error)

	// ListByOwner returns the owner's carts, newest first, with items loaded.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Cart, error)

	// Delete removes the cart and all of its items.
	Delete(ctx context.Context, id uuid.UUID) error

	FindItemByID(ctx context.Context, itemID uuid.UUID) (*entity.CartItem, error)
	FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*entity.CartItem, error)
	CreateItem(ctx context.Context, item *entity.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}
