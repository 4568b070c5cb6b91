package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ougirez/injuries/internal/api/controller"
	"github.com/ougirez/injuries/internal/pkg/config"
	"github.com/ougirez/injuries/internal/pkg/logger"
	"github.com/ougirez/injuries/internal/pkg/store"
	"github.com/ougirez/injuries/internal/service/insights"
)

type APIService struct {
	router          *echo.Echo
	insightsService *insights.Service
}

func (svc *APIService) Serve(addr string) {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(context.Background(), err)
	}
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(store store.Store, cfg *config.Config) (*APIService, error) {
	svc := &APIService{router: echo.New()}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(echoLogLevel(cfg.Log.Level))
	svc.router.JSONSerializer = NewJSONSerializer()
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.HTTPErrorHandler = httpErrorHandler

	svc.router.Use(middleware.Recover())
	svc.router.Use(middleware.RequestID())
	svc.router.Use(svc.RequestLoggerMiddleware)
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.AllowOrigins,
		AllowMethods: []string{echo.GET, echo.HEAD, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	svc.insightsService = insights.NewInsightsService(store, cfg.Industry.MinEmployees)

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(svc.insightsService)

	years := api.Group("/years")
	years.GET("", cntrl.GetYears)
	years.GET("/:year/records", cntrl.GetYearRecords)

	establishments := api.Group("/establishments")
	establishments.GET("", cntrl.GetEstablishments)
	establishments.GET("/:id", cntrl.GetEstablishment)

	states := api.Group("/states")
	states.GET("/metrics", cntrl.GetStateMetrics)
	states.GET("/pivot", cntrl.GetStatePivot)

	api.GET("/industries/metrics", cntrl.GetIndustryMetrics)
	api.GET("/zips/metrics", cntrl.GetZipMetrics)
	api.GET("/correlation", cntrl.GetCorrelation)

	return svc, nil
}

func echoLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
