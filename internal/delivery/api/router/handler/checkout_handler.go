package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"storefront/config"
	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/response"
	deliverycontext "storefront/internal/delivery/context"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// CheckoutHandlerParams holds dependencies for CheckoutHandler, injected by Fx.
type CheckoutHandlerParams struct {
	fx.In

	CheckoutUC usecase.CheckoutUsecase
	Config     *config.Config
	Logger     *slog.Logger
}

// CheckoutHandler opens payment sessions and receives the gateway redirect.
type CheckoutHandler struct {
	checkoutUC usecase.CheckoutUsecase
	successURL string
	retryURL   string
	logger     *slog.Logger
}

func NewCheckoutHandler(params CheckoutHandlerParams) *CheckoutHandler {
	h := &CheckoutHandler{
		checkoutUC: params.CheckoutUC,
		logger:     params.Logger,
	}
	if params.Config.Payment != nil {
		h.successURL = params.Config.Payment.SuccessURL
		h.retryURL = params.Config.Payment.RetryURL
	}

	return h
}

type PayRequest struct {
	Address string `json:"address" validate:"required"`
}

type PayResponse struct {
	PaymentLink string `json:"payment_link"`
	TxRef       string `json:"tx_ref"`
	Amount      string `json:"amount"`
}

// ConfirmPaymentRequest carries the gateway redirect parameters.
type ConfirmPaymentRequest struct {
	CartID        string `query:"c_id" form:"c_id" json:"c_id"`
	Token         string `query:"token" form:"token" json:"token"`
	TransactionID string `query:"transaction_id" form:"transaction_id" json:"transaction_id"`
	Status        string `query:"status" form:"status" json:"status"`
}

func (h *CheckoutHandler) Pay(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	cartID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req PayRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.checkoutUC.Pay(c.Request().Context(), &usecase.PayInput{
		UserID:  userID,
		CartID:  cartID,
		Address: req.Address,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &PayResponse{
		PaymentLink: output.PaymentLink,
		TxRef:       output.TxRef,
		Amount:      money(output.Amount),
	})
}

// ConfirmPayment is public: the checkout token in the query authenticates the buyer.
// With success/retry URLs configured the buyer is redirected, otherwise JSON is returned.
func (h *CheckoutHandler) ConfirmPayment(c echo.Context) error {
	var req ConfirmPaymentRequest
	binder := &echo.DefaultBinder{}
	if err := binder.BindQueryParams(c, &req); err != nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("malformed query"))
	}
	if c.Request().Method != http.MethodGet && c.Request().ContentLength != 0 {
		if err := binder.BindBody(c, &req); err != nil {
			return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("malformed request"))
		}
	}

	cartID, err := uuid.Parse(req.CartID)
	if err != nil || req.Token == "" {
		return h.confirmFailed(c, req.CartID, errors.WithStack(domainerrors.ErrInvalidCheckoutToken))
	}

	order, err := h.checkoutUC.ConfirmPayment(c.Request().Context(), &usecase.ConfirmPaymentInput{
		CartID:        cartID,
		Token:         req.Token,
		TransactionID: req.TransactionID,
		Status:        req.Status,
	})
	if err != nil {
		return h.confirmFailed(c, req.CartID, err)
	}

	if h.successURL != "" {
		return c.Redirect(http.StatusSeeOther, withQuery(h.successURL, url.Values{"order_id": {order.ID.String()}}))
	}

	return response.Success(c, http.StatusCreated, newOrderView(order))
}

func (h *CheckoutHandler) confirmFailed(c echo.Context, cartID string, err error) error {
	var appErr domainerrors.AppError
	if h.retryURL == "" || !errors.As(err, &appErr) || appErr.Kind() == domainerrors.KindInternal {
		return err
	}

	deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).Warn("Payment confirmation rejected",
		slog.String("cart_id", cartID),
		slog.String("code", appErr.ErrorCode()),
		slog.Any("error", err),
	)

	return c.Redirect(http.StatusSeeOther, withQuery(h.retryURL, url.Values{
		"c_id":   {cartID},
		"reason": {appErr.ErrorCode()},
	}))
}

// withQuery merges params into the query string of base.
func withQuery(base string, params url.Values) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}

	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}
