package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/injuries/internal/pkg/constants"
	"github.com/ougirez/injuries/internal/service/insights"
)

func (c *Controller) GetYears(ctx echo.Context) error {
	years, err := c.service.ListYears(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, years)
}

type getYearRecordsRequest struct {
	Year    int    `param:"year" validate:"gte=2000,lte=2100"`
	Search  string `query:"search"`
	MinRate string `query:"min_rate" validate:"omitempty,numeric"`
	MaxRate string `query:"max_rate" validate:"omitempty,numeric"`
	Limit   int    `query:"limit" validate:"gte=0"`
}

func (c *Controller) GetYearRecords(ctx echo.Context) error {
	var req getYearRecordsRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	opts := insights.ListYearRecordsOpts{
		Year:   req.Year,
		Search: optional(req.Search),
		Limit:  req.Limit,
	}

	var err error
	if opts.MinRate, err = parseRate(req.MinRate); err != nil {
		return err
	}
	if opts.MaxRate, err = parseRate(req.MaxRate); err != nil {
		return err
	}

	records, err := c.service.ListYearRecords(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, records)
}

func parseRate(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: rate %q", constants.ErrBadRequest, s)
	}
	return &v, nil
}
