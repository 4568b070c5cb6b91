package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/injuries/internal/service/insights"
)

type getEstablishmentsRequest struct {
	Search string `query:"search"`
	All    bool   `query:"all"`
	Limit  int    `query:"limit" validate:"gte=0"`
}

func (c *Controller) GetEstablishments(ctx echo.Context) error {
	var req getEstablishmentsRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	summaries, err := c.service.ListEstablishments(ctx.Request().Context(), insights.ListEstablishmentsOpts{
		Search: optional(req.Search),
		All:    req.All,
		Limit:  req.Limit,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, summaries)
}

func (c *Controller) GetEstablishment(ctx echo.Context) error {
	detail, err := c.service.GetEstablishment(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, detail)
}
