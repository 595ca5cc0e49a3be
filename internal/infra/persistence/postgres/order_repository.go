package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order and its items in one statement batch.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		switch {
		case isUniqueConstraintViolation(err):
			return repository.ErrDuplicateTransaction
		case isForeignKeyConstraintViolation(err):
			return domainerrors.ErrProductNotFound.WrapMessage("order references a missing product or owner")
		case isCheckConstraintViolation(err):
			return domainerrors.ErrValidationFailed.WrapMessage("order item quantity must be positive")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.PlacedAt = orderM.PlacedAt
	for i, itemM := range orderM.Items {
		order.Items[i].ID = itemM.ID
		order.Items[i].OrderID = orderM.ID
	}

	return nil
}

func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&orderM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	return toOrderDomain(&orderM), nil
}

// List returns matching orders, newest first.
func (repo *orderRepository) List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error) {
	query := repo.db.WithContext(ctx).Preload("Items")

	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Year > 0 {
		query = query.Where("EXTRACT(YEAR FROM placed_at) = ?", filter.Year)
	}
	if filter.Month > 0 {
		query = query.Where("EXTRACT(MONTH FROM placed_at) = ?", filter.Month)
	}
	if filter.StartDate != nil {
		query = query.Where("placed_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("placed_at < ?", *filter.EndDate)
	}

	var orderModels []*model.OrderModel
	if err := query.Order("placed_at DESC").Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, nil
}

func (repo *orderRepository) SetDelivered(ctx context.Context, id uuid.UUID, delivered bool) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Update("delivered", delivered)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

func (repo *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)

	if err := db.Where("order_id = ?", id).Delete(&model.OrderItemModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete order items")
	}

	result := db.Where("id = ?", id).Delete(&model.OrderModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete order")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	items := make([]*entity.OrderItem, 0, len(data.Items))
	for _, itemM := range data.Items {
		items = append(items, &entity.OrderItem{
			ID:        itemM.ID,
			OrderID:   itemM.OrderID,
			OwnerID:   itemM.OwnerID,
			ProductID: itemM.ProductID,
			Quantity:  itemM.Quantity,
			Price:     itemM.Price,
		})
	}

	var transactionID string
	if data.TransactionID != nil {
		transactionID = *data.TransactionID
	}

	return &entity.Order{
		ID:            data.ID,
		OwnerID:       data.OwnerID,
		Address:       data.Address,
		TotalPrice:    data.TotalPrice,
		Delivered:     data.Delivered,
		TransactionID: transactionID,
		Items:         items,
		PlacedAt:      data.PlacedAt,
	}
}

func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	items := make([]model.OrderItemModel, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, model.OrderItemModel{
			ID:        item.ID,
			OwnerID:   item.OwnerID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.Round(2),
		})
	}

	var transactionID *string
	if data.TransactionID != "" {
		tid := data.TransactionID
		transactionID = &tid
	}

	return &model.OrderModel{
		ID:            data.ID,
		OwnerID:       data.OwnerID,
		Address:       data.Address,
		TotalPrice:    data.TotalPrice.Round(2),
		Delivered:     data.Delivered,
		TransactionID: transactionID,
		PlacedAt:      data.PlacedAt,
		Items:         items,
	}
}
