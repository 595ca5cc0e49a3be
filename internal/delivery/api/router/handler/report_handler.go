package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ReportHandlerParams holds dependencies for ReportHandler, injected by Fx.
type ReportHandlerParams struct {
	fx.In

	ReportUC usecase.ReportUsecase
	Logger   *slog.Logger
}

// ReportHandler serves the admin sales dashboard.
type ReportHandler struct {
	reportUC usecase.ReportUsecase
	logger   *slog.Logger
}

func NewReportHandler(params ReportHandlerParams) *ReportHandler {
	return &ReportHandler{
		reportUC: params.ReportUC,
		logger:   params.Logger,
	}
}

func (h *ReportHandler) OrdersByMonth(c echo.Context) error {
	year, err := queryInt(c, "year")
	if err != nil {
		return err
	}

	summaries, err := h.reportUC.OrdersByMonth(c.Request().Context(), year)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, periodViews(summaries))
}

func (h *ReportHandler) OrdersByDateRange(c echo.Context) error {
	start, err := queryDate(c, "start_date")
	if err != nil {
		return err
	}
	end, err := queryDate(c, "end_date")
	if err != nil {
		return err
	}
	if start == nil || end == nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("start_date and end_date are required"))
	}

	summaries, err := h.reportUC.OrdersByDateRange(c.Request().Context(), *start, *end)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, periodViews(summaries))
}

func (h *ReportHandler) TopProducts(c echo.Context) error {
	input := &usecase.TopProductsInput{RankBy: entity.SalesRanking(c.QueryParam("rank_by"))}

	var err error
	if input.Limit, err = queryInt(c, "limit"); err != nil {
		return err
	}
	if input.Start, err = queryDate(c, "start_date"); err != nil {
		return err
	}
	if input.End, err = queryDate(c, "end_date"); err != nil {
		return err
	}

	ranked, err := h.reportUC.TopProducts(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*ProductSalesView, 0, len(ranked))
	for _, p := range ranked {
		views = append(views, &ProductSalesView{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			Quantity:    p.Quantity,
			Revenue:     money(p.Revenue),
		})
	}

	return response.Success(c, http.StatusOK, views)
}

func periodViews(summaries []*entity.OrderPeriodSummary) []*PeriodSummaryView {
	views := make([]*PeriodSummaryView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, &PeriodSummaryView{
			Period:     s.Period,
			OrderCount: s.OrderCount,
			Revenue:    money(s.Revenue),
		})
	}

	return views
}
