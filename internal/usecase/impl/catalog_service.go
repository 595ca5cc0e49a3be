package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"
	"storefront/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	logger       *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	Logger       *slog.Logger
}

// NewCatalogService creates a new catalog service instance.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		categoryRepo: params.CategoryRepo,
		productRepo:  params.ProductRepo,
		logger:       params.Logger,
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, wrapRepoError(err, "failed to list categories")
	}

	return categories, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapRepoError(err, "failed to get category")
	}

	return category, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, input *usecase.CategoryInput) (*entity.Category, error) {
	title, slug, err := titleAndSlug(input)
	if err != nil {
		return nil, err
	}

	category := &entity.Category{Title: title, Slug: slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, wrapRepoError(err, "failed to create category")
	}

	deliverycontext.GetLoggerOrDefault(ctx, s.logger).Info("Category created",
		slog.Any("categoryID", category.ID),
		slog.String("slug", slug),
	)

	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, input *usecase.CategoryInput) (*entity.Category, error) {
	title, slug, err := titleAndSlug(input)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapRepoError(err, "failed to find category")
	}

	category.Title = title
	category.Slug = slug
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, wrapRepoError(err, "failed to update category")
	}

	return category, nil
}

// DeleteCategory fails with ErrCategoryInUse while products or sub-categories reference it.
func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return wrapRepoError(err, "failed to delete category")
	}

	return nil
}

func (s *catalogService) ListSubCategories(ctx context.Context, categoryID uuid.UUID) ([]*entity.SubCategory, error) {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, wrapRepoError(err, "failed to find category")
	}

	subs, err := s.categoryRepo.ListSubCategories(ctx, categoryID)
	if err != nil {
		return nil, wrapRepoError(err, "failed to list sub-categories")
	}

	return subs, nil
}

func (s *catalogService) CreateSubCategory(ctx context.Context, categoryID uuid.UUID, input *usecase.CategoryInput) (*entity.SubCategory, error) {
	title, slug, err := titleAndSlug(input)
	if err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, wrapRepoError(err, "failed to find category")
	}

	sub := &entity.SubCategory{CategoryID: categoryID, Title: title, Slug: slug}
	if err := s.categoryRepo.CreateSubCategory(ctx, sub); err != nil {
		return nil, wrapRepoError(err, "failed to create sub-category")
	}

	return sub, nil
}

func (s *catalogService) UpdateSubCategory(ctx context.Context, id uuid.UUID, input *usecase.CategoryInput) (*entity.SubCategory, error) {
	title, slug, err := titleAndSlug(input)
	if err != nil {
		return nil, err
	}

	sub, err := s.categoryRepo.FindSubCategoryByID(ctx, id)
	if err != nil {
		return nil, wrapRepoError(err, "failed to find sub-category")
	}

	sub.Title = title
	sub.Slug = slug
	if err := s.categoryRepo.UpdateSubCategory(ctx, sub); err != nil {
		return nil, wrapRepoError(err, "failed to update sub-category")
	}

	return sub, nil
}

func (s *catalogService) DeleteSubCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.DeleteSubCategory(ctx, id); err != nil {
		return wrapRepoError(err, "failed to delete sub-category")
	}

	return nil
}

// ListProducts always hides sold-out products and clamps paging.
func (s *catalogService) ListProducts(ctx context.Context, filter entity.ProductFilter) (*usecase.ProductPage, error) {
	switch filter.Ordering {
	case entity.ProductOrderingNewest, entity.ProductOrderingPriceAsc, entity.ProductOrderingPriceDesc:
	default:
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("ordering must be price or -price"))
	}

	if filter.PriceGT != nil && filter.PriceLT != nil && !filter.PriceGT.LessThan(*filter.PriceLT) {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("price_gt must be below price_lt"))
	}

	filter.InStockOnly = true
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	products, count, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, wrapRepoError(err, "failed to list products")
	}

	return &usecase.ProductPage{
		Products: products,
		Count:    count,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapRepoError(err, "failed to get product")
	}

	return product, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, input *usecase.ProductInput) (*entity.Product, error) {
	if err := s.validateProductInput(ctx, input); err != nil {
		return nil, err
	}

	product := &entity.Product{}
	applyProductInput(product, input)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, wrapRepoError(err, "failed to create product")
	}

	deliverycontext.GetLoggerOrDefault(ctx, s.logger).Info("Product created", slog.Any("productID", product.ID))

	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input *usecase.ProductInput) (*entity.Product, error) {
	if err := s.validateProductInput(ctx, input); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapRepoError(err, "failed to find product")
	}

	applyProductInput(product, input)
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, wrapRepoError(err, "failed to update product")
	}

	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return wrapRepoError(err, "failed to delete product")
	}

	return nil
}

// validateProductInput checks field ranges and that the sub-category belongs to the category.
func (s *catalogService) validateProductInput(ctx context.Context, input *usecase.ProductInput) error {
	switch {
	case strings.TrimSpace(input.Name) == "":
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("name is required"))
	case !input.Price.IsPositive():
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("price must be positive"))
	case input.Price.Exponent() < -2:
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("price allows at most two decimal places"))
	case input.Inventory < 0:
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("inventory cannot be negative"))
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		return wrapRepoError(err, "failed to find product category")
	}

	if input.SubCategoryID != nil {
		sub, err := s.categoryRepo.FindSubCategoryByID(ctx, *input.SubCategoryID)
		if err != nil {
			return wrapRepoError(err, "failed to find product sub-category")
		}
		if sub.CategoryID != input.CategoryID {
			return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("sub-category belongs to another category"))
		}
	}

	return nil
}

func applyProductInput(product *entity.Product, input *usecase.ProductInput) {
	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Material = input.Material
	product.Discount = input.Discount
	product.TopDeal = input.TopDeal
	product.Colours = normalizeTags(input.Colours)
	product.Sizes = normalizeTags(input.Sizes)
	product.Price = input.Price
	product.Inventory = input.Inventory
	product.CategoryID = input.CategoryID
	product.SubCategoryID = input.SubCategoryID
}

// normalizeTags trims entries and drops blanks and duplicates, keeping first-seen order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}

	return out
}

func titleAndSlug(input *usecase.CategoryInput) (string, string, error) {
	title := strings.TrimSpace(input.Title)
	slug := util.Slugify(title)
	if slug == "" {
		return "", "", errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("title must contain letters or digits"))
	}

	return title, slug, nil
}
