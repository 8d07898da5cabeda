package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/octobees/house-price-estimator/internal/backend"
	"github.com/octobees/house-price-estimator/internal/catalog"
	"github.com/octobees/house-price-estimator/internal/config"
	"github.com/octobees/house-price-estimator/internal/estimator"
	"github.com/octobees/house-price-estimator/internal/handler"
	"github.com/octobees/house-price-estimator/internal/logger"
	"github.com/octobees/house-price-estimator/internal/metrics"
	middlewarepkg "github.com/octobees/house-price-estimator/internal/middleware"
	"github.com/octobees/house-price-estimator/internal/render"
	"github.com/octobees/house-price-estimator/internal/router"
	"github.com/octobees/house-price-estimator/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	l, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	client, err := newBackend(cfg)
	if err != nil {
		l.Fatal("failed to build predictor client", zap.Error(err))
	}

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	availability := catalog.NewLoader(client, catalog.WithLogger(l), catalog.WithRecorder(m)).Boot(bootCtx)
	cancel()
	l.Info("location catalog settled",
		zap.Bool("ready", availability.Ready()),
		zap.Int("locations", availability.Count()),
		zap.String("predictor", client.BaseURL()),
	)

	sessions := session.NewStore(cfg.SessionTTL, func() *estimator.Orchestrator {
		return estimator.New(client, availability, estimator.WithLogger(l), estimator.WithRecorder(m))
	}, session.WithMaxSessions(cfg.SessionMax))
	formatter := render.NewFormatter(cfg.Price.Locale, cfg.Price.Currency, cfg.Price.Unit)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(l))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, router.Handlers{
		Estimator: handler.NewEstimatorHandler(availability, formatter, l),
		Sessions:  sessions,
		Gatherer:  reg,
	})

	serverErr := make(chan error, 1)
	go func() {
		l.Info("listening", zap.String("port", cfg.Port))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		l.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("server error", zap.Error(err))
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		l.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func newBackend(cfg *config.Config) (*backend.Client, error) {
	if cfg.IDTokenAuth {
		return backend.NewIDTokenClient(context.Background(), cfg.PredictorBaseURL)
	}
	return backend.NewClient(&http.Client{Timeout: cfg.PredictorTimeout}, cfg.PredictorBaseURL)
}
