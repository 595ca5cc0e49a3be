package impl

import (
	"context"
	"fmt"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/qrcode"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestOrderService(store *memStore) usecase.OrderUsecase {
	return NewOrderService(OrderServiceParams{
		OrderRepo: store.OrderRepo(),
		QRService: qrcode.NewQRCodeService(128, "M"),
		Logger:    discardLogger(),
	})
}

func seedOrder(t *testing.T, store *memStore, ownerID uuid.UUID) *entity.Order {
	t.Helper()
	order := &entity.Order{
		OwnerID: ownerID,
		Address: "12 Marina Road",
		Items: []*entity.OrderItem{
			{OwnerID: ownerID, ProductID: uuid.New(), Quantity: 1, Price: mustDecimal("10.50")},
		},
	}
	order.TotalPrice = order.SumItems()
	require.NoError(t, store.OrderRepo().Create(context.Background(), order))

	return order
}

func TestOrderService_Visibility(t *testing.T) {
	store := newMemStore()
	svc := createTestOrderService(store)
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	aliceOrder := seedOrder(t, store, alice)
	seedOrder(t, store, bob)

	orders, err := svc.ListOrders(ctx, usecase.Actor{UserID: alice}, entity.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, aliceOrder.ID, orders[0].ID)

	orders, err = svc.ListOrders(ctx, usecase.Actor{UserID: alice, IsAdmin: true}, entity.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	_, err = svc.GetOrder(ctx, usecase.Actor{UserID: bob}, aliceOrder.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotFound))

	_, err = svc.ListOrders(ctx, usecase.Actor{UserID: alice}, entity.OrderFilter{Month: 13, Year: 2024})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestOrderService_DeliveryByQR(t *testing.T) {
	store := newMemStore()
	svc := createTestOrderService(store)
	ctx := context.Background()

	owner := uuid.New()
	order := seedOrder(t, store, owner)

	png, err := svc.ReceiptQR(ctx, usecase.Actor{UserID: owner}, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])

	_, err = svc.ReceiptQR(ctx, usecase.Actor{UserID: uuid.New()}, order.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotFound))

	payload := fmt.Sprintf(`{"order_id":%q,"type":"order_receipt"}`, order.ID)
	delivered, err := svc.ConfirmDeliveryByQR(ctx, payload)
	require.NoError(t, err)
	assert.True(t, delivered.Delivered)

	_, err = svc.ConfirmDeliveryByQR(ctx, `{"order_id":"x","type":"merchant_subscription"}`)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidQRCode))

	undone, err := svc.MarkDelivered(ctx, order.ID, false)
	require.NoError(t, err)
	assert.False(t, undone.Delivered)

	require.NoError(t, svc.DeleteOrder(ctx, order.ID))
	_, err = svc.MarkDelivered(ctx, order.ID, true)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotFound))
}
