package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC usecase.OrderUsecase
	Logger  *slog.Logger
}

type OrderHandler struct {
	orderUC usecase.OrderUsecase
	logger  *slog.Logger
}

func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		orderUC: params.OrderUC,
		logger:  params.Logger,
	}
}

type MarkDeliveredRequest struct {
	Delivered *bool `json:"delivered" validate:"required"`
}

type ConfirmDeliveryRequest struct {
	QRData string `json:"qr_data" validate:"required,max=512"`
}

// ListOrders accepts month, year, start_date and end_date; admins may also pass owner.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var (
		filter entity.OrderFilter
		err    error
	)
	if filter.Month, err = queryInt(c, "month"); err != nil {
		return err
	}
	if filter.Year, err = queryInt(c, "year"); err != nil {
		return err
	}
	if filter.StartDate, err = queryDate(c, "start_date"); err != nil {
		return err
	}
	if filter.EndDate, err = queryDate(c, "end_date"); err != nil {
		return err
	}
	if filter.OwnerID, err = queryUUID(c, "owner"); err != nil {
		return err
	}

	orders, err := h.orderUC.ListOrders(c.Request().Context(), actor, filter)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, newOrderView(order))
	}

	return response.Success(c, http.StatusOK, views)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderUC.GetOrder(c.Request().Context(), actor, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newOrderView(order))
}

// ReceiptQR streams the receipt QR code as PNG.
func (h *OrderHandler) ReceiptQR(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	png, err := h.orderUC.ReceiptQR(c.Request().Context(), actor, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *OrderHandler) MarkDelivered(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req MarkDeliveredRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderUC.MarkDelivered(c.Request().Context(), orderID, *req.Delivered)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newOrderView(order))
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.orderUC.DeleteOrder(c.Request().Context(), orderID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ConfirmDeliveryByQR marks the order in a scanned receipt as delivered.
func (h *OrderHandler) ConfirmDeliveryByQR(c echo.Context) error {
	var req ConfirmDeliveryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderUC.ConfirmDeliveryByQR(c.Request().Context(), req.QRData)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newOrderView(order))
}
