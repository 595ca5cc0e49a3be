package postgres

import (
	"context"
	"strings"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// List applies filter, counts every match and returns the requested page.
func (repo *productRepository) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, int64, error) {
	query := repo.applyFilter(repo.db.WithContext(ctx).Model(&model.ProductModel{}), filter)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count products")
	}

	switch filter.Ordering {
	case entity.ProductOrderingPriceAsc:
		query = query.Order("price ASC").Order("id ASC")
	case entity.ProductOrderingPriceDesc:
		query = query.Order("price DESC").Order("id ASC")
	default:
		query = query.Order("created_at DESC").Order("id ASC")
	}

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var productModels []*model.ProductModel
	if err := query.Find(&productModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, toProductDomain(productM))
	}

	return products, total, nil
}

func (repo *productRepository) applyFilter(query *gorm.DB, filter entity.ProductFilter) *gorm.DB {
	if filter.InStockOnly {
		query = query.Where("inventory >= 1")
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if name := strings.TrimSpace(filter.CategoryName); name != "" {
		query = query.Where("category_id IN (?)",
			repo.db.Model(&model.CategoryModel{}).Select("id").
				Where("lower(title) = lower(?) OR slug = lower(?)", name, name))
	}
	if filter.SubCategoryID != nil {
		query = query.Where("sub_category_id = ?", *filter.SubCategoryID)
	}
	if name := strings.TrimSpace(filter.SubCategoryName); name != "" {
		query = query.Where("sub_category_id IN (?)",
			repo.db.Model(&model.SubCategoryModel{}).Select("id").
				Where("lower(title) = lower(?) OR slug = lower(?)", name, name))
	}
	if filter.PriceGT != nil {
		query = query.Where("price > ?", *filter.PriceGT)
	}
	if filter.PriceLT != nil {
		query = query.Where("price < ?", *filter.PriceLT)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(search) + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR material ILIKE ?", pattern, pattern, pattern)
	}

	return query
}

func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&productM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return toProductDomain(&productM), nil
}

// FindByIDs returns the products that exist among ids, in no particular order.
func (repo *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}

	var productModels []*model.ProductModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find products")
	}

	products := make([]*entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, toProductDomain(productM))
	}

	return products, nil
}

func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(productM).Error; err != nil {
		return translateProductWriteError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":            productM.Name,
			"description":     productM.Description,
			"material":        productM.Material,
			"discount":        productM.Discount,
			"top_deal":        productM.TopDeal,
			"colours":         productM.Colours,
			"sizes":           productM.Sizes,
			"price":           productM.Price,
			"inventory":       productM.Inventory,
			"category_id":     productM.CategoryID,
			"sub_category_id": productM.SubCategoryID,
			"updated_at":      gorm.Expr("NOW()"),
		})
	if err := result.Error; err != nil {
		return translateProductWriteError(err, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

func (repo *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ProductModel{})
	if err := result.Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("product is referenced by orders or carts")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// DecrementInventory runs a single conditional UPDATE ... RETURNING so concurrent
// checkouts can never drive inventory below zero.
func (repo *productRepository) DecrementInventory(ctx context.Context, id uuid.UUID, qty int) (*entity.Product, error) {
	if qty <= 0 {
		return nil, errors.Errorf("invalid decrement quantity %d", qty)
	}

	var productM model.ProductModel
	result := repo.db.WithContext(ctx).
		Model(&productM).
		Clauses(clause.Returning{}).
		Where("id = ? AND inventory >= ?", id, qty).
		Update("inventory", gorm.Expr("inventory - ?", qty))
	if result.Error != nil {
		return nil, domainerrors.NewDatabaseExecuteError(result.Error, "failed to decrement inventory")
	}

	if result.RowsAffected == 0 {
		// Either the product is gone or there is not enough stock left.
		if _, err := repo.FindByID(ctx, id); err != nil {
			return nil, err
		}

		return nil, repository.ErrInsufficientStock
	}

	return toProductDomain(&productM), nil
}

func translateProductWriteError(err error, msg string) error {
	switch {
	case isForeignKeyConstraintViolation(err):
		return domainerrors.ErrCategoryNotFound.WrapMessage("product category or sub-category does not exist")
	case isCheckConstraintViolation(err):
		return domainerrors.ErrValidationFailed.WrapMessage("inventory must not be negative")
	case isNotNullConstraintViolation(err):
		return domainerrors.ErrValidationFailed.WrapMessage("missing required product information")
	default:
		return domainerrors.NewDatabaseExecuteError(err, msg)
	}
}

// --- Mapper Functions ---

func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	return &entity.Product{
		ID:            data.ID,
		Name:          data.Name,
		Description:   data.Description,
		Material:      data.Material,
		Discount:      data.Discount,
		TopDeal:       data.TopDeal,
		Colours:       append([]string{}, data.Colours...),
		Sizes:         append([]string{}, data.Sizes...),
		Price:         data.Price,
		Inventory:     data.Inventory,
		CategoryID:    data.CategoryID,
		SubCategoryID: data.SubCategoryID,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	colours := data.Colours
	if colours == nil {
		colours = []string{}
	}
	sizes := data.Sizes
	if sizes == nil {
		sizes = []string{}
	}

	return &model.ProductModel{
		ID:            data.ID,
		Name:          data.Name,
		Description:   data.Description,
		Material:      data.Material,
		Discount:      data.Discount,
		TopDeal:       data.TopDeal,
		Colours:       datatypes.JSONSlice[string](colours),
		Sizes:         datatypes.JSONSlice[string](sizes),
		Price:         data.Price.Round(2),
		Inventory:     data.Inventory,
		CategoryID:    data.CategoryID,
		SubCategoryID: data.SubCategoryID,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}
