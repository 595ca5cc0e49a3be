package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Actor identifies the caller of an ownership-checked operation.
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// CanAccess reports whether the actor may read a resource owned by ownerID.
func (a Actor) CanAccess(ownerID uuid.UUID) bool {
	return a.IsAdmin || a.UserID == ownerID
}

// AddCartItemInput adds quantity units of a product to a cart.
type AddCartItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CartUsecase manages carts and their items.
type CartUsecase interface {
	CreateCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)
	ListCarts(ctx context.Context, userID uuid.UUID) ([]*entity.Cart, error)
	GetCart(ctx context.Context, actor Actor, cartID uuid.UUID) (*entity.Cart, error)
	DeleteCart(ctx context.Context, userID, cartID uuid.UUID) error

	// AddItem merges into an existing line for the same product.
	AddItem(ctx context.Context, userID, cartID uuid.UUID, input *AddCartItemInput) (*entity.CartItem, error)
	// AddItemToCurrentCart uses the caller's newest cart, creating one when none exists.
	AddItemToCurrentCart(ctx context.Context, userID uuid.UUID, input *AddCartItemInput) (*entity.CartItem, error)
	ListItems(ctx context.Context, actor Actor, cartID uuid.UUID) ([]*entity.CartItem, error)
	UpdateItem(ctx context.Context, userID, cartID, itemID uuid.UUID, quantity int) (*entity.CartItem, error)
	RemoveItem(ctx context.Context, userID, cartID, itemID uuid.UUID) error
}
