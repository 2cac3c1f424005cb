package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-report/internal/config"
	"github.com/vzahanych/weather-report/internal/forecaster"
	"github.com/vzahanych/weather-report/internal/location"
	"github.com/vzahanych/weather-report/internal/secrets"
	"github.com/vzahanych/weather-report/internal/service"
)

type reportOptions struct {
	description string
	coordinates string
	events      int
	dumpPath    string
}

func (o *reportOptions) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.description, "description", "d", "", "place to look up, e.g. \"Lund, Sweden\"")
	flags.StringVarP(&o.coordinates, "coordinates", "c", "", "point as \"<lat>,<lon>\"")
	flags.IntVarP(&o.events, "events", "n", 0, "number of forecast hours to show (default: forecast.events)")
	flags.StringVar(&o.dumpPath, "dump", "", "write the raw forecast response to this file")

	cmd.MarkFlagsMutuallyExclusive("description", "coordinates")
	cmd.MarkFlagsOneRequired("description", "coordinates")
}

func runReport(cmd *cobra.Command, opts *reportOptions) error {
	cfg := config.GetConfig()

	runID := uuid.NewString()
	runLog := log.With(zap.String("run_id", runID))
	ctx := forecaster.WithRequestID(cmd.Context(), runID)

	events := cfg.Forecast.Events
	if cmd.Flags().Changed("events") {
		events = opts.events
	}
	if events < 1 {
		return fmt.Errorf("--events must be at least 1, got %d", events)
	}

	query := location.Query{Description: opts.description, Coordinates: opts.coordinates}

	f, err := buildForecaster(cfg, query, runLog)
	if err != nil {
		return err
	}

	dumpPath := cfg.Debug.DumpPath
	if opts.dumpPath != "" {
		dumpPath = opts.dumpPath
	}
	f.SetDump(fs, dumpPath)

	runLog.Debug("Running report",
		zap.String("description", query.Description),
		zap.String("coordinates", query.Coordinates),
		zap.Int("events", events))

	result, err := f.Forecast(ctx, query)
	if err != nil {
		return err
	}

	out, err := result.Render(cfg.Display.Timezone, events, clock.Now())
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

// buildForecaster wires the SMHI client and, for description queries only,
// a geocoder whose key comes from config or the secrets file.
func buildForecaster(cfg *config.Config, query location.Query, logger *zap.Logger) (*forecaster.Forecaster, error) {
	var geocoder location.Geocoder
	if query.Description != "" {
		apiKey, err := geocodeAPIKey(cfg.Geocode)
		if err != nil {
			return nil, err
		}
		geocoder = service.NewGoogleGeocodeServiceWithConfig(cfg.Geocode, apiKey, logger, tele)
	}

	resolver := location.NewResolver(geocoder, logger)
	smhi := service.NewSMHIServiceWithConfig(cfg.Forecast, logger, tele)

	return forecaster.NewForecaster(resolver, smhi, logger, tele), nil
}

func geocodeAPIKey(cfg config.GeocodeConfig) (string, error) {
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}
	key, err := secrets.GeocodeAPIKey(cfg.SecretsFile)
	if err != nil {
		return "", fmt.Errorf("geocoding API key: %w", err)
	}
	return key, nil
}
