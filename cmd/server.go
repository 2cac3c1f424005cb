package cmd

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-report/internal/config"
	"github.com/vzahanych/weather-report/internal/forecaster"
	"github.com/vzahanych/weather-report/internal/location"
	"github.com/vzahanych/weather-report/internal/observability"
	"github.com/vzahanych/weather-report/internal/secrets"
	"github.com/vzahanych/weather-report/internal/server"
	"github.com/vzahanych/weather-report/internal/service"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve forecasts over HTTP",
		Long:  `Start an HTTP server answering GET /forecast with the same report the CLI prints, plus health and Prometheus endpoints.`,
		Args:  cobra.NoArgs,
		RunE:  runServer,
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting forecast server",
		zap.String("config_path", configPath),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	f := newServerForecaster(cfg)
	f.SetMetricsRecorder(metrics)

	srv := server.NewServer(cfg, f, metrics, registry, clock, log, tele)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", zap.Error(err))
		}
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}

// newServerForecaster enables description lookups only when an API key is
// available; coordinate lookups always work.
func newServerForecaster(cfg *config.Config) *forecaster.Forecaster {
	var geocoder location.Geocoder

	apiKey, err := geocodeAPIKey(cfg.Geocode)
	switch {
	case err == nil:
		geocoder = service.NewGoogleGeocodeServiceWithConfig(cfg.Geocode, apiKey, log, tele)
	case errors.Is(err, secrets.ErrKeyNotFound):
		log.Warn("No geocoding API key, description lookups disabled", zap.Error(err))
	default:
		log.Warn("Could not read geocoding API key, description lookups disabled", zap.Error(err))
	}

	resolver := location.NewResolver(geocoder, log)
	smhi := service.NewSMHIServiceWithConfig(cfg.Forecast, log, tele)

	f := forecaster.NewForecaster(resolver, smhi, log, tele)
	f.SetDump(fs, cfg.Debug.DumpPath)
	return f
}
