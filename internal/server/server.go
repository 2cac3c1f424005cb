package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-report/internal/config"
	"github.com/vzahanych/weather-report/internal/observability"
	"github.com/vzahanych/weather-report/internal/server/handlers"
	"github.com/vzahanych/weather-report/internal/server/middlewares"
	"github.com/vzahanych/weather-report/pkg/telemetry"
)

type Server struct {
	engine   *gin.Engine
	server   *http.Server
	cfg      *config.Config
	fc       handlers.Forecaster
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
	clock    clockwork.Clock
	logger   *zap.Logger
	tele     *telemetry.Telemetry
}

func NewServer(cfg *config.Config, fc handlers.Forecaster, metrics *observability.Metrics, gatherer prometheus.Gatherer, clock clockwork.Clock, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger, "/health", "/health/live", "/health/ready", "/metrics"))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(middlewares.MetricsMiddleware(metrics))

	s := &Server{
		engine:   engine,
		cfg:      cfg,
		fc:       fc,
		metrics:  metrics,
		gatherer: gatherer,
		clock:    clock,
		logger:   logger,
		tele:     tele,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	// Business endpoints
	s.engine.GET("/forecast", handlers.NewForecastHandler(s.fc, s.cfg, s.clock, s.logger).GetForecast)

	// Health endpoints (Kubernetes friendly)
	health := handlers.NewHealthHandler(s.logger, s.clock, func() bool { return s.fc != nil })
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", handlers.NewMetricsHandler(s.gatherer, s.logger).ServeMetrics)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks until the listener fails or Shutdown is called; the latter
// returns nil.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
