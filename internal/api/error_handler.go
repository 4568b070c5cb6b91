package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/injuries/internal/domain"
	"github.com/ougirez/injuries/internal/pkg/constants"
	"github.com/ougirez/injuries/internal/pkg/logger"
)

func httpErrorHandler(err error, c echo.Context) {
	msg := err.Error()
	code := http.StatusInternalServerError

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
	}
	var codedErr *constants.CodedError
	if errors.As(err, &codedErr) {
		code = codedErr.Code()
	}

	if code >= http.StatusInternalServerError {
		logger.Errorf(c.Request().Context(), "request failed: %s", msg)
	}

	if c.Response().Committed {
		return
	}
	_ = c.JSON(code, domain.ErrorResponse{
		Message: msg,
		Code:    code,
	})
}
