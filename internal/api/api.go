package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tbruijn/covidwatch/internal/api/controller"
	"github.com/tbruijn/covidwatch/internal/pkg/logger"
	"github.com/tbruijn/covidwatch/internal/pkg/store"
	"github.com/tbruijn/covidwatch/internal/service/analysis"
	"github.com/tbruijn/covidwatch/internal/service/ingest"
	"github.com/tbruijn/covidwatch/internal/service/statistics"
)

type APIService struct {
	router          *echo.Echo
	statsService    *statistics.Service
	analysisService *analysis.Service
	ingestService   *ingest.Service
}

func (svc *APIService) Serve(addr string) {
	logger.Fatal(context.Background(), svc.router.Start(addr))
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(store store.Store) (*APIService, error) {
	svc := &APIService{router: echo.New()}

	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.Use(middleware.Logger())
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	svc.ingestService = ingest.NewService()
	svc.statsService = statistics.NewService(store, svc.ingestService)
	svc.analysisService = analysis.NewService(svc.statsService, store)

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(svc.statsService, svc.analysisService, svc.ingestService)

	stats := api.Group("/statistics")
	stats.POST("/refresh", cntrl.RefreshStatistics, svc.AdminMiddleware)
	stats.GET("/daily", cntrl.GetDailyTotals)
	stats.GET("/reproduction", cntrl.GetReproduction)
	stats.GET("/forecast", cntrl.GetForecast)

	sources := api.Group("/sources")
	sources.POST("/download", cntrl.DownloadSources, svc.AdminMiddleware)

	return svc, nil
}
