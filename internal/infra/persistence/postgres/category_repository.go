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

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository is the constructor for categoryRepository.
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

// List returns every category with its sub-categories, ordered by title.
func (repo *categoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	var categoryModels []*model.CategoryModel
	err := repo.db.WithContext(ctx).
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("title ASC")
		}).
		Order("title ASC").
		Find(&categoryModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	categories := make([]*entity.Category, 0, len(categoryModels))
	for _, categoryM := range categoryModels {
		categories = append(categories, toCategoryDomain(categoryM))
	}

	return categories, nil
}

func (repo *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var categoryM model.CategoryModel
	err := repo.db.WithContext(ctx).
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("title ASC")
		}).
		Where("id = ?", id).
		First(&categoryM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to find category")
	}

	return toCategoryDomain(&categoryM), nil
}

func (repo *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	categoryM := &model.CategoryModel{
		Title: category.Title,
		Slug:  category.Slug,
	}

	if err := repo.db.WithContext(ctx).Omit("SubCategories").Create(categoryM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("category slug already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create category")
	}

	category.ID = categoryM.ID
	category.CreatedAt = categoryM.CreatedAt
	category.UpdatedAt = categoryM.UpdatedAt

	return nil
}

func (repo *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("id = ?", category.ID).
		Updates(map[string]any{
			"title":      category.Title,
			"slug":       category.Slug,
			"updated_at": gorm.Expr("NOW()"),
		})
	if err := result.Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("category slug already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update category")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCategoryNotFound
	}

	return nil
}

// Delete removes a category. Categories still referenced by products or sub-categories are kept.
func (repo *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.CategoryModel{})
	if err := result.Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrCategoryInUse
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to delete category")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCategoryNotFound
	}

	return nil
}

func (repo *categoryRepository) ListSubCategories(ctx context.Context, categoryID uuid.UUID) ([]*entity.SubCategory, error) {
	var subModels []*model.SubCategoryModel
	err := repo.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("title ASC").
		Find(&subModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sub-categories")
	}

	subs := make([]*entity.SubCategory, 0, len(subModels))
	for _, subM := range subModels {
		subs = append(subs, toSubCategoryDomain(subM))
	}

	return subs, nil
}

func (repo *categoryRepository) FindSubCategoryByID(ctx context.Context, id uuid.UUID) (*entity.SubCategory, error) {
	var subM model.SubCategoryModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&subM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSubCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to find sub-category")
	}

	return toSubCategoryDomain(&subM), nil
}

func (repo *categoryRepository) CreateSubCategory(ctx context.Context, sub *entity.SubCategory) error {
	subM := &model.SubCategoryModel{
		CategoryID: sub.CategoryID,
		Title:      sub.Title,
		Slug:       sub.Slug,
	}

	if err := repo.db.WithContext(ctx).Create(subM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("sub-category slug already exists in category")
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrCategoryNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create sub-category")
	}

	sub.ID = subM.ID
	sub.CreatedAt = subM.CreatedAt
	sub.UpdatedAt = subM.UpdatedAt

	return nil
}

func (repo *categoryRepository) UpdateSubCategory(ctx context.Context, sub *entity.SubCategory) error {
	result := repo.db.WithContext(ctx).
		Model(&model.SubCategoryModel{}).
		Where("id = ?", sub.ID).
		Updates(map[string]any{
			"category_id": sub.CategoryID,
			"title":       sub.Title,
			"slug":        sub.Slug,
			"updated_at":  gorm.Expr("NOW()"),
		})
	if err := result.Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("sub-category slug already exists in category")
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrCategoryNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update sub-category")
	}
	if result.RowsAffected == 0 {
		return repository.ErrSubCategoryNotFound
	}

	return nil
}

func (repo *categoryRepository) DeleteSubCategory(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.SubCategoryModel{})
	if err := result.Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrCategoryInUse
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to delete sub-category")
	}
	if result.RowsAffected == 0 {
		return repository.ErrSubCategoryNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toCategoryDomain(data *model.CategoryModel) *entity.Category {
	if data == nil {
		return nil
	}

	subs := make([]*entity.SubCategory, 0, len(data.SubCategories))
	for i := range data.SubCategories {
		subs = append(subs, toSubCategoryDomain(&data.SubCategories[i]))
	}

	return &entity.Category{
		ID:            data.ID,
		Title:         data.Title,
		Slug:          data.Slug,
		SubCategories: subs,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func toSubCategoryDomain(data *model.SubCategoryModel) *entity.SubCategory {
	if data == nil {
		return nil
	}

	return &entity.SubCategory{
		ID:         data.ID,
		CategoryID: data.CategoryID,
		Title:      data.Title,
		Slug:       data.Slug,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
