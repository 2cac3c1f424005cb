package forecaster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-report/internal/location"
	"github.com/vzahanych/weather-report/internal/report"
	"github.com/vzahanych/weather-report/internal/service"
	"github.com/vzahanych/weather-report/internal/types"
	"github.com/vzahanych/weather-report/pkg/telemetry"
)

// ErrOutOfBounds means the forecast provider does not cover the point.
var ErrOutOfBounds = errors.New("requested point is out of bounds")

const (
	OutcomeOK             = "ok"
	OutcomeOutOfBounds    = "out_of_bounds"
	OutcomeResolveError   = "resolve_error"
	OutcomeTransportError = "transport_error"
	OutcomeDecodeError    = "decode_error"
)

type Resolver interface {
	Resolve(ctx context.Context, q location.Query) (types.Coordinates, error)
}

// MetricsRecorder interface for recording metrics
type MetricsRecorder interface {
	RecordForecast(outcome string)
	ObserveUpstream(service string, d time.Duration)
}

// Result is one decoded forecast and the point it was requested for.
type Result struct {
	Coordinates types.Coordinates
	Report      *report.Report
	// GridDistanceKm is the distance from the requested point to the forecast
	// grid point, or -1 when the report carries no point geometry.
	GridDistanceKm float64
}

type Forecaster struct {
	resolver Resolver
	forecast service.ForecastService
	logger   *zap.Logger
	tele     *telemetry.Telemetry
	metrics  MetricsRecorder
	fs       afero.Fs
	dumpPath string
}

func NewForecaster(resolver Resolver, forecast service.ForecastService, logger *zap.Logger, tele *telemetry.Telemetry) *Forecaster {
	return &Forecaster{
		resolver: resolver,
		forecast: forecast,
		logger:   logger,
		tele:     tele,
		fs:       afero.NewOsFs(),
	}
}

// SetMetricsRecorder sets the metrics recorder for the forecaster
func (f *Forecaster) SetMetricsRecorder(metrics MetricsRecorder) {
	f.metrics = metrics
}

// SetDump makes every fetched body be written verbatim to path on fs. An empty
// path disables the dump.
func (f *Forecaster) SetDump(fs afero.Fs, path string) {
	if fs != nil {
		f.fs = fs
	}
	f.dumpPath = path
}

func (f *Forecaster) Forecast(ctx context.Context, q location.Query) (*Result, error) {
	tracer := f.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "forecaster.Forecast")
	defer span.End()

	reqLogger := f.logger
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		reqLogger = f.logger.With(zap.String("request_id", requestID))
	}

	coords, err := f.resolve(ctx, q)
	if err != nil {
		f.record(OutcomeResolveError)
		f.tele.RecordError(ctx, err)
		reqLogger.Warn("Failed to resolve location", zap.Error(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.Float64("lat", coords.Latitude),
		attribute.Float64("lon", coords.Longitude),
	)

	start := time.Now()
	body, err := f.forecast.FetchPoint(ctx, coords)
	if f.metrics != nil {
		f.metrics.ObserveUpstream(f.forecast.Name(), time.Since(start))
	}
	if err != nil {
		f.record(OutcomeTransportError)
		reqLogger.Error("Failed to fetch forecast", zap.Error(err))
		return nil, err
	}

	f.dump(reqLogger, body)

	if report.IsOutOfBounds(body) {
		f.record(OutcomeOutOfBounds)
		span.SetAttributes(attribute.Bool("out_of_bounds", true))
		reqLogger.Info("Point is outside forecast coverage", zap.Stringer("coords", coords))
		return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, coords)
	}

	rep, err := f.decode(ctx, body)
	if err != nil {
		f.record(OutcomeDecodeError)
		f.tele.RecordError(ctx, err)
		reqLogger.Error("Failed to decode forecast", zap.Error(err))
		return nil, err
	}

	result := &Result{
		Coordinates:    coords,
		Report:         rep,
		GridDistanceKm: gridDistanceKm(coords, rep.Geometry()),
	}

	span.SetAttributes(
		attribute.Int("events_count", rep.Len()),
		attribute.Float64("grid_distance_km", result.GridDistanceKm),
	)
	f.record(OutcomeOK)

	reqLogger.Info("Forecast decoded",
		zap.Int("events_count", rep.Len()),
		zap.Time("approved_at", rep.ApprovedAt()),
		zap.Float64("grid_distance_km", result.GridDistanceKm))

	return result, nil
}

func (f *Forecaster) resolve(ctx context.Context, q location.Query) (types.Coordinates, error) {
	tracer := f.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "forecaster.resolve")
	defer span.End()

	span.SetAttributes(attribute.Bool("geocoded", q.Description != ""))

	return f.resolver.Resolve(ctx, q)
}

func (f *Forecaster) decode(ctx context.Context, body string) (*report.Report, error) {
	_, span := f.tele.GetTracer().Start(ctx, "forecaster.decode")
	defer span.End()

	span.SetAttributes(attribute.Int("body_size", len(body)))

	return report.Decode(body)
}

// dump never fails a lookup; write errors are only logged.
func (f *Forecaster) dump(logger *zap.Logger, body string) {
	if f.dumpPath == "" {
		return
	}

	if err := afero.WriteFile(f.fs, f.dumpPath, []byte(body), 0o644); err != nil {
		logger.Warn("Failed to write forecast dump",
			zap.String("path", f.dumpPath),
			zap.Error(err))
		return
	}

	logger.Debug("Forecast dumped",
		zap.String("path", f.dumpPath),
		zap.Int("body_size", len(body)))
}

func (f *Forecaster) record(outcome string) {
	if f.metrics != nil {
		f.metrics.RecordForecast(outcome)
	}
}

func gridDistanceKm(coords types.Coordinates, g report.Geometry) float64 {
	p, ok := g.Point()
	if !ok {
		return -1
	}
	return geo.Distance(orb.Point{coords.Longitude, coords.Latitude}, p) / 1000
}
