package impl

import (
	"context"
	"sync"
	"testing"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestCartService(store *memStore) usecase.CartUsecase {
	return NewCartService(CartServiceParams{
		TxManager: store,
		CartRepo:  store.CartRepo(),
		Logger:    discardLogger(),
	})
}

func TestCartService_AddItem_MergesSameProduct(t *testing.T) {
	store := newMemStore()
	svc := createTestCartService(store)
	ctx := context.Background()

	userID := uuid.New()
	product := store.seedProduct("Linen shirt", "1000", 5)

	cart, err := svc.CreateCart(ctx, userID)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, userID, cart.ID, &usecase.AddCartItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, userID, cart.ID, &usecase.AddCartItemInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	items, err := svc.ListItems(ctx, usecase.Actor{UserID: userID}, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = svc.AddItem(ctx, userID, cart.ID, &usecase.AddCartItemInput{ProductID: product.ID, Quantity: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientInventory))

	got, err := svc.GetCart(ctx, usecase.Actor{UserID: userID}, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, "5000.00", got.GrandTotal().StringFixed(2))
}

func TestCartService_AddItem_ConcurrentAddsStayWithinStock(t *testing.T) {
	store := newMemStore()
	svc := createTestCartService(store)
	ctx := context.Background()

	userID := uuid.New()
	product := store.seedProduct("Wool hat", "30", 4)
	cart, err := svc.CreateCart(ctx, userID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AddItem(ctx, userID, cart.ID, &usecase.AddCartItemInput{ProductID: product.ID, Quantity: 1})
		}()
	}
	wg.Wait()

	items, err := svc.ListItems(ctx, usecase.Actor{UserID: userID}, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestCartService_Ownership(t *testing.T) {
	store := newMemStore()
	svc := createTestCartService(store)
	ctx := context.Background()

	owner, stranger := uuid.New(), uuid.New()
	product := store.seedProduct("Linen shirt", "1000", 5)
	cart, err := svc.CreateCart(ctx, owner)
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, owner, cart.ID, &usecase.AddCartItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.GetCart(ctx, usecase.Actor{UserID: stranger}, cart.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	_, err = svc.GetCart(ctx, usecase.Actor{UserID: stranger, IsAdmin: true}, cart.ID)
	assert.NoError(t, err, "admins may read any cart")

	_, err = svc.AddItem(ctx, stranger, cart.ID, &usecase.AddCartItemInput{ProductID: product.ID, Quantity: 1})
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	_, err = svc.UpdateItem(ctx, stranger, cart.ID, item.ID, 2)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	err = svc.DeleteCart(ctx, stranger, cart.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
	assert.True(t, store.hasCart(cart.ID))
}

func TestCartService_UpdateAndRemoveItem(t *testing.T) {
	store := newMemStore()
	svc := createTestCartService(store)
	ctx := context.Background()

	userID := uuid.New()
	product := store.seedProduct("Linen shirt", "1000", 5)
	cart, err := svc.CreateCart(ctx, userID)
	require.NoError(t, err)
	other, err := svc.CreateCart(ctx, userID)
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, userID, cart.ID, &usecase.AddCartItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, userID, cart.ID, item.ID, 0)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	_, err = svc.UpdateItem(ctx, userID, cart.ID, item.ID, 6)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientInventory))

	updated, err := svc.UpdateItem(ctx, userID, cart.ID, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	err = svc.RemoveItem(ctx, userID, other.ID, item.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrCartItemNotFound), "item must belong to the addressed cart")

	require.NoError(t, svc.RemoveItem(ctx, userID, cart.ID, item.ID))
	items, err := svc.ListItems(ctx, usecase.Actor{UserID: userID}, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_AddItemToCurrentCart(t *testing.T) {
	store := newMemStore()
	svc := createTestCartService(store)
	ctx := context.Background()

	userID := uuid.New()
	product := store.seedProduct("Linen shirt", "1000", 5)

	first, err := svc.AddItemToCurrentCart(ctx, userID, &usecase.AddCartItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	second, err := svc.AddItemToCurrentCart(ctx, userID, &usecase.AddCartItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, first.CartID, second.CartID)
	assert.Equal(t, 2, second.Quantity)

	carts, err := svc.ListCarts(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, carts, 1)
}
