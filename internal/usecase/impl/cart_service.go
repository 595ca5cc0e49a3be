package impl

import (
	"context"
	"fmt"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type cartService struct {
	txManager repository.TransactionManager
	cartRepo  repository.CartRepository
	logger    *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	CartRepo  repository.CartRepository
	Logger    *slog.Logger
}

// NewCartService creates a new cart service instance.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		txManager: params.TxManager,
		cartRepo:  params.CartRepo,
		logger:    params.Logger,
	}
}

func (s *cartService) CreateCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	cart := &entity.Cart{OwnerID: userID}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, wrapRepoError(err, "failed to create cart")
	}

	return cart, nil
}

func (s *cartService) ListCarts(ctx context.Context, userID uuid.UUID) ([]*entity.Cart, error) {
	carts, err := s.cartRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, wrapRepoError(err, "failed to list carts")
	}

	return carts, nil
}

func (s *cartService) GetCart(ctx context.Context, actor usecase.Actor, cartID uuid.UUID) (*entity.Cart, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, wrapRepoError(err, "failed to get cart")
	}

	if !actor.CanAccess(cart.OwnerID) {
		return nil, errors.WithStack(domainerrors.ErrForbidden)
	}

	return cart, nil
}

func (s *cartService) DeleteCart(ctx context.Context, userID, cartID uuid.UUID) error {
	return s.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		cartRepo := repos.CartRepo()

		if _, err := lockOwnedCart(ctx, cartRepo, userID, cartID); err != nil {
			return err
		}

		return wrapRepoError(cartRepo.Delete(ctx, cartID), "failed to delete cart")
	})
}

// AddItem runs under the cart row lock so concurrent adds of the same product merge
// into one line whose quantity never exceeds current inventory.
func (s *cartService) AddItem(ctx context.Context, userID, cartID uuid.UUID, input *usecase.AddCartItemInput) (*entity.CartItem, error) {
	if input.Quantity < 1 {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("quantity must be at least 1"))
	}

	var result *entity.CartItem

	err := s.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		cartRepo := repos.CartRepo()

		if _, err := lockOwnedCart(ctx, cartRepo, userID, cartID); err != nil {
			return err
		}

		product, err := repos.ProductRepo().FindByID(ctx, input.ProductID)
		if err != nil {
			return wrapRepoError(err, "failed to find product")
		}

		existing, err := cartRepo.FindItemByProduct(ctx, cartID, input.ProductID)
		if err != nil && !errors.Is(err, repository.ErrCartItemNotFound) {
			return wrapRepoError(err, "failed to find cart item")
		}

		if existing != nil {
			combined := existing.Quantity + input.Quantity
			if err := checkStock(product, combined); err != nil {
				return err
			}
			if err := cartRepo.UpdateItemQuantity(ctx, existing.ID, combined); err != nil {
				return wrapRepoError(err, "failed to update cart item")
			}
			existing.Quantity = combined
			existing.Product = product
			result = existing

			return nil
		}

		if err := checkStock(product, input.Quantity); err != nil {
			return err
		}

		item := &entity.CartItem{
			CartID:    cartID,
			OwnerID:   userID,
			ProductID: product.ID,
			Quantity:  input.Quantity,
		}
		if err := cartRepo.CreateItem(ctx, item); err != nil {
			return wrapRepoError(err, "failed to add cart item")
		}
		item.Product = product
		result = item

		return nil
	})
	if err != nil {
		return nil, err
	}

	deliverycontext.GetLoggerOrDefault(ctx, s.logger).Debug("Cart item saved",
		slog.Any("cartID", cartID),
		slog.Any("productID", input.ProductID),
		slog.Int("quantity", result.Quantity),
	)

	return result, nil
}

func (s *cartService) AddItemToCurrentCart(ctx context.Context, userID uuid.UUID, input *usecase.AddCartItemInput) (*entity.CartItem, error) {
	carts, err := s.cartRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, wrapRepoError(err, "failed to list carts")
	}

	var cartID uuid.UUID
	if len(carts) > 0 {
		cartID = carts[0].ID
	} else {
		cart, err := s.CreateCart(ctx, userID)
		if err != nil {
			return nil, err
		}
		cartID = cart.ID
	}

	return s.AddItem(ctx, userID, cartID, input)
}

func (s *cartService) ListItems(ctx context.Context, actor usecase.Actor, cartID uuid.UUID) ([]*entity.CartItem, error) {
	cart, err := s.GetCart(ctx, actor, cartID)
	if err != nil {
		return nil, err
	}

	return cart.Items, nil
}

func (s *cartService) UpdateItem(ctx context.Context, userID, cartID, itemID uuid.UUID, quantity int) (*entity.CartItem, error) {
	if quantity < 1 {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("quantity must be at least 1"))
	}

	var result *entity.CartItem

	err := s.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		cartRepo := repos.CartRepo()

		item, err := loadOwnedItem(ctx, cartRepo, userID, cartID, itemID)
		if err != nil {
			return err
		}

		product, err := repos.ProductRepo().FindByID(ctx, item.ProductID)
		if err != nil {
			return wrapRepoError(err, "failed to find product")
		}

		if err := checkStock(product, quantity); err != nil {
			return err
		}

		if err := cartRepo.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
			return wrapRepoError(err, "failed to update cart item")
		}

		item.Quantity = quantity
		item.Product = product
		result = item

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, cartID, itemID uuid.UUID) error {
	return s.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		cartRepo := repos.CartRepo()

		if _, err := loadOwnedItem(ctx, cartRepo, userID, cartID, itemID); err != nil {
			return err
		}

		return wrapRepoError(cartRepo.DeleteItem(ctx, itemID), "failed to remove cart item")
	})
}

// lockOwnedCart row-locks the cart and checks the caller owns it.
func lockOwnedCart(ctx context.Context, cartRepo repository.CartRepository, userID, cartID uuid.UUID) (*entity.Cart, error) {
	cart, err := cartRepo.FindByIDForUpdate(ctx, cartID)
	if err != nil {
		return nil, wrapRepoError(err, "failed to lock cart")
	}

	if !cart.IsOwnedBy(userID) {
		return nil, errors.WithStack(domainerrors.ErrForbidden)
	}

	return cart, nil
}

func loadOwnedItem(ctx context.Context, cartRepo repository.CartRepository, userID, cartID, itemID uuid.UUID) (*entity.CartItem, error) {
	if _, err := lockOwnedCart(ctx, cartRepo, userID, cartID); err != nil {
		return nil, err
	}

	item, err := cartRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, wrapRepoError(err, "failed to find cart item")
	}

	if item.CartID != cartID {
		return nil, errors.WithStack(domainerrors.ErrCartItemNotFound)
	}

	return item, nil
}

func checkStock(product *entity.Product, quantity int) error {
	if product.InStock(quantity) {
		return nil
	}

	return errors.WithStack(domainerrors.ErrInsufficientInventory.WithDetails(
		fmt.Sprintf("%s: available %d, requested %d", product.Name, product.Inventory, quantity),
	))
}
