package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/injuries/internal/domain"
)

func (c *Controller) GetStateMetrics(ctx echo.Context) error {
	m, err := c.service.ListStateMetrics(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, m)
}

func (c *Controller) GetStatePivot(ctx echo.Context) error {
	type response struct {
		StatesData map[string]domain.YearData `json:"states_data"`
		MinYear    domain.Year                `json:"min_year,omitempty"`
		MaxYear    domain.Year                `json:"max_year,omitempty"`
	}

	var (
		resp response
		err  error
	)

	resp.StatesData, resp.MinYear, resp.MaxYear, err = c.service.GetStatePivot(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, resp)
}

type getIndustryMetricsRequest struct {
	Year int `query:"year" validate:"omitempty,gte=2000,lte=2100"`
}

func (c *Controller) GetIndustryMetrics(ctx echo.Context) error {
	var req getIndustryMetricsRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	var year *domain.Year
	if req.Year != 0 {
		year = &req.Year
	}

	m, err := c.service.ListIndustryMetrics(ctx.Request().Context(), year)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, m)
}

type getZipMetricsRequest struct {
	State string `query:"state" validate:"required,len=2"`
}

func (c *Controller) GetZipMetrics(ctx echo.Context) error {
	var req getZipMetricsRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	m, err := c.service.ListZipMetrics(ctx.Request().Context(), req.State)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, m)
}
