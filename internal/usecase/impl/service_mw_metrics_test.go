package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCheckout struct {
	err error
}

func (s stubCheckout) Pay(context.Context, *usecase.PayInput) (*usecase.PayOutput, error) {
	return &usecase.PayOutput{}, s.err
}

func (s stubCheckout) ConfirmPayment(context.Context, *usecase.ConfirmPaymentInput) (*entity.Order, error) {
	return nil, s.err
}

func (s stubCheckout) PlaceOrder(context.Context, *usecase.PlaceOrderInput) (*entity.Order, error) {
	return &entity.Order{}, s.err
}

func TestMiddlewareCheckoutMetrics_CountsCallsAndErrorCodes(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc, err := MiddlewareCheckoutMetrics(reg, stubCheckout{err: errors.Wrap(domainerrors.ErrCartEmpty, "place order")})
	require.NoError(t, err)

	mw := svc.(*checkoutMetrics)
	ctx := context.Background()

	_, err = svc.PlaceOrder(ctx, &usecase.PlaceOrderInput{})
	assert.True(t, errors.Is(err, domainerrors.ErrCartEmpty), "errors pass through unchanged")
	_, _ = svc.PlaceOrder(ctx, &usecase.PlaceOrderInput{})

	assert.InDelta(t, 2, testutil.ToFloat64(mw.reqs.WithLabelValues("place_order")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(mw.errs.WithLabelValues("place_order", "CART_EMPTY")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(mw.durs))
}

func TestMiddlewareCheckoutMetrics_UnknownErrorCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc, err := MiddlewareCheckoutMetrics(reg, stubCheckout{err: errors.New("boom")})
	require.NoError(t, err)

	_, _ = svc.Pay(context.Background(), &usecase.PayInput{})

	mw := svc.(*checkoutMetrics)
	assert.InDelta(t, 1, testutil.ToFloat64(mw.errs.WithLabelValues("pay", "unknown")), 0)

	_, err = MiddlewareCheckoutMetrics(reg, stubCheckout{})
	assert.Error(t, err, "registering twice on one registry fails")
}
