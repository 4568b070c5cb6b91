package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/injuries/internal/service/insights"
)

type getCorrelationRequest struct {
	Year int    `query:"year" validate:"gte=2000,lte=2100"`
	X    string `query:"x" validate:"required"`
	Y    string `query:"y" validate:"required"`
	Log  bool   `query:"log"`
}

func (c *Controller) GetCorrelation(ctx echo.Context) error {
	var req getCorrelationRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	corr, err := c.service.GetCorrelation(ctx.Request().Context(), insights.CorrelationOpts{
		Year: req.Year,
		X:    req.X,
		Y:    req.Y,
		Log:  req.Log,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, corr)
}
