package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// CatalogHandlerParams holds dependencies for CatalogHandler, injected by Fx.
type CatalogHandlerParams struct {
	fx.In

	CatalogUC usecase.CatalogUsecase
	Logger    *slog.Logger
}

// CatalogHandler serves categories, sub-categories and products.
type CatalogHandler struct {
	catalogUC usecase.CatalogUsecase
	logger    *slog.Logger
}

func NewCatalogHandler(params CatalogHandlerParams) *CatalogHandler {
	return &CatalogHandler{
		catalogUC: params.CatalogUC,
		logger:    params.Logger,
	}
}

type CategoryRequest struct {
	Title string `json:"title" validate:"required,max=100"`
}

type ProductRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Description   string          `json:"description" validate:"max=5000"`
	Material      string          `json:"material" validate:"max=200"`
	Discount      bool            `json:"discount"`
	TopDeal       bool            `json:"top_deal"`
	Colours       []string        `json:"colours" validate:"max=50,dive,required,max=50"`
	Sizes         []string        `json:"sizes" validate:"max=50,dive,required,max=20"`
	Price         decimal.Decimal `json:"price"`
	Inventory     int             `json:"inventory" validate:"gte=0"`
	CategoryID    uuid.UUID       `json:"category_id" validate:"required"`
	SubCategoryID *uuid.UUID      `json:"sub_category_id"`
}

func (r *ProductRequest) toInput() *usecase.ProductInput {
	return &usecase.ProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Material:      r.Material,
		Discount:      r.Discount,
		TopDeal:       r.TopDeal,
		Colours:       r.Colours,
		Sizes:         r.Sizes,
		Price:         r.Price,
		Inventory:     r.Inventory,
		CategoryID:    r.CategoryID,
		SubCategoryID: r.SubCategoryID,
	}
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalogUC.ListCategories(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*CategoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, newCategoryView(category))
	}

	return response.Success(c, http.StatusOK, views)
}

func (h *CatalogHandler) GetCategory(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	category, err := h.catalogUC.GetCategory(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newCategoryView(category))
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.catalogUC.CreateCategory(c.Request().Context(), &usecase.CategoryInput{Title: req.Title})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newCategoryView(category))
}

func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.catalogUC.UpdateCategory(c.Request().Context(), id, &usecase.CategoryInput{Title: req.Title})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newCategoryView(category))
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogUC.DeleteCategory(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ListSubCategories(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	subs, err := h.catalogUC.ListSubCategories(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newSubCategoryViews(subs))
}

func (h *CatalogHandler) CreateSubCategory(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sub, err := h.catalogUC.CreateSubCategory(c.Request().Context(), id, &usecase.CategoryInput{Title: req.Title})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newSubCategoryView(sub))
}

func (h *CatalogHandler) UpdateSubCategory(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sub, err := h.catalogUC.UpdateSubCategory(c.Request().Context(), id, &usecase.CategoryInput{Title: req.Title})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newSubCategoryView(sub))
}

func (h *CatalogHandler) DeleteSubCategory(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogUC.DeleteSubCategory(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListProducts accepts category, category_name, sub_category, sub_category_name,
// price_gt, price_lt, search, ordering, page and page_size query parameters.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	filter, err := productFilterFromQuery(c)
	if err != nil {
		return err
	}

	page, err := h.catalogUC.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*ProductView, 0, len(page.Products))
	for _, product := range page.Products {
		views = append(views, newProductView(product))
	}

	return response.Paginated(c, views, response.Pagination{
		Count:    page.Count,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

func productFilterFromQuery(c echo.Context) (entity.ProductFilter, error) {
	var (
		filter entity.ProductFilter
		err    error
	)

	if filter.CategoryID, err = queryUUID(c, "category"); err != nil {
		return filter, err
	}
	if filter.SubCategoryID, err = queryUUID(c, "sub_category"); err != nil {
		return filter, err
	}
	if filter.PriceGT, err = queryDecimal(c, "price_gt"); err != nil {
		return filter, err
	}
	if filter.PriceLT, err = queryDecimal(c, "price_lt"); err != nil {
		return filter, err
	}
	if filter.Page, err = queryInt(c, "page"); err != nil {
		return filter, err
	}
	if filter.PageSize, err = queryInt(c, "page_size"); err != nil {
		return filter, err
	}

	filter.CategoryName = c.QueryParam("category_name")
	filter.SubCategoryName = c.QueryParam("sub_category_name")
	filter.Search = c.QueryParam("search")
	filter.Ordering = entity.ProductOrdering(c.QueryParam("ordering"))

	return filter, nil
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.catalogUC.GetProduct(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProductView(product))
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.catalogUC.CreateProduct(c.Request().Context(), req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newProductView(product))
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.catalogUC.UpdateProduct(c.Request().Context(), id, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProductView(product))
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogUC.DeleteProduct(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
