package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tbruijn/covidwatch/internal/pkg/constants"
	"github.com/tbruijn/covidwatch/internal/service/analysis"
	"github.com/tbruijn/covidwatch/internal/service/statistics"
)

const queryDateLayout = "2006-01-02"

func (c *Controller) RefreshStatistics(ctx echo.Context) error {
	result, err := c.stats.Refresh(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, result)
}

func (c *Controller) GetDailyTotals(ctx echo.Context) error {
	opts := statistics.DailyTotalsOpts{}

	if municipality := ctx.QueryParams().Get("municipality"); municipality != "" {
		opts.Municipality = &municipality
	}
	if province := ctx.QueryParams().Get("province"); province != "" {
		opts.Province = &province
	}

	var err error
	opts.Start, opts.End, err = parseDateRange(ctx)
	if err != nil {
		return err
	}

	totals, err := c.stats.DailyTotals(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, totals)
}

func (c *Controller) GetReproduction(ctx echo.Context) error {
	opts := analysis.ReproductionOpts{}

	var err error
	opts.Start, opts.End, err = parseDateRange(ctx)
	if err != nil {
		return err
	}

	points, err := c.analysis.ReproductionSeries(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, points)
}

type forecastRequest struct {
	Days         int    `query:"days" validate:"min=0"`
	Municipality string `query:"municipality"`
	Province     string `query:"province"`
	Linear       string `query:"linear"`
	Exponential  string `query:"exponential"`
}

func (c *Controller) GetForecast(ctx echo.Context) error {
	req := forecastRequest{Linear: "true", Exponential: "true"}
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	opts := analysis.ForecastOpts{
		Days:        req.Days,
		Linear:      req.Linear == "true" || req.Linear == "1",
		Exponential: req.Exponential == "true" || req.Exponential == "1",
	}
	if req.Municipality != "" {
		opts.Municipality = &req.Municipality
	}
	if req.Province != "" {
		opts.Province = &req.Province
	}

	var err error
	opts.Start, opts.End, err = parseDateRange(ctx)
	if err != nil {
		return err
	}

	points, err := c.analysis.Forecast(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, points)
}

func parseDateRange(ctx echo.Context) (start, end *time.Time, err error) {
	if raw := ctx.QueryParams().Get("start_date"); raw != "" {
		d, parseErr := time.Parse(queryDateLayout, raw)
		if parseErr != nil {
			return nil, nil, constants.NewCodedError("invalid start_date", http.StatusBadRequest)
		}
		start = &d
	}

	if raw := ctx.QueryParams().Get("end_date"); raw != "" {
		d, parseErr := time.Parse(queryDateLayout, raw)
		if parseErr != nil {
			return nil, nil, constants.NewCodedError("invalid end_date", http.StatusBadRequest)
		}
		end = &d
	}

	return start, end, nil
}
