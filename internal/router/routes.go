package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/octobees/house-price-estimator/internal/config"
	"github.com/octobees/house-price-estimator/internal/handler"
	middlewarepkg "github.com/octobees/house-price-estimator/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Estimator *handler.EstimatorHandler
	Sessions  middlewarepkg.SessionResolver
	Gatherer  prometheus.Gatherer
}

// Register wires all HTTP routes for the estimator.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	if handlers.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(handlers.Gatherer, promhttp.HandlerOpts{})))
	}

	e.GET("/api/locations", handlers.Estimator.Locations)

	session := e.Group("", middlewarepkg.Session(handlers.Sessions))
	session.Use(middlewarepkg.PredictRateLimiter(cfg.RateLimitPredict, "/predict", "/api/predict"))

	session.GET("/", handlers.Estimator.Page)
	session.POST("/predict", handlers.Estimator.SubmitForm)
	session.POST("/api/predict", handlers.Estimator.Predict)
	session.GET("/api/status", handlers.Estimator.Status)
}
