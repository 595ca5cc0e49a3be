package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type orderService struct {
	orderRepo repository.OrderRepository
	qrService service.QRCodeService
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	OrderRepo repository.OrderRepository
	QRService service.QRCodeService
	Logger    *slog.Logger
}

// NewOrderService creates a new order service instance.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		orderRepo: params.OrderRepo,
		qrService: params.QRService,
		logger:    params.Logger,
	}
}

func (s *orderService) ListOrders(ctx context.Context, actor usecase.Actor, filter entity.OrderFilter) ([]*entity.Order, error) {
	if filter.Month != 0 && (filter.Month < 1 || filter.Month > 12) {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("month must be between 1 and 12"))
	}
	if filter.Month != 0 && filter.Year == 0 {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("month filter requires a year"))
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("end date is before start date"))
	}

	if !actor.IsAdmin {
		ownerID := actor.UserID
		filter.OwnerID = &ownerID
	}

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, wrapRepoError(err, "failed to list orders")
	}

	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, actor usecase.Actor, orderID uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, wrapRepoError(err, "failed to load order")
	}

	// Other users' orders are reported as missing.
	if !actor.CanAccess(order.OwnerID) {
		return nil, errors.WithStack(domainerrors.ErrOrderNotFound)
	}

	return order, nil
}

func (s *orderService) MarkDelivered(ctx context.Context, orderID uuid.UUID, delivered bool) (*entity.Order, error) {
	if err := s.orderRepo.SetDelivered(ctx, orderID, delivered); err != nil {
		return nil, wrapRepoError(err, "failed to update delivery status")
	}

	deliverycontext.GetLoggerOrDefault(ctx, s.logger).Info("Order delivery status changed",
		slog.Any("orderID", orderID),
		slog.Bool("delivered", delivered),
	)

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, wrapRepoError(err, "failed to reload order")
	}

	return order, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	return wrapRepoError(s.orderRepo.Delete(ctx, orderID), "failed to delete order")
}

func (s *orderService) ReceiptQR(ctx context.Context, actor usecase.Actor, orderID uuid.UUID) ([]byte, error) {
	order, err := s.GetOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	png, err := s.qrService.GenerateOrderQR(order.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render receipt QR code")
	}

	return png, nil
}

func (s *orderService) ConfirmDeliveryByQR(ctx context.Context, qrData string) (*entity.Order, error) {
	orderID, err := s.qrService.ParseOrderQR(qrData)
	if err != nil {
		return nil, err
	}

	return s.MarkDelivered(ctx, orderID, true)
}
