package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/injuries/internal/pkg/logger"
)

// RequestLoggerMiddleware attaches the request id to the request context logger
// and logs every finished request.
func (svc *APIService) RequestLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		ctx := logger.WithFields(req.Context(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"method", req.Method,
			"path", req.URL.Path,
		)
		c.SetRequest(req.WithContext(ctx))

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		logger.Info(ctx, "request served",
			"status", c.Response().Status,
			"latency", time.Since(start).String(),
		)
		return nil
	}
}
