package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-report/internal/config"
	"github.com/vzahanych/weather-report/internal/types"
	"github.com/vzahanych/weather-report/pkg/telemetry"
)

const smhiPointPath = "/api/category/pmp3g/version/2/geotype/point/lon/%s/lat/%s/data.json"

type SMHIService struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewSMHIServiceWithConfig(cfg config.ForecastConfig, logger *zap.Logger, tele *telemetry.Telemetry) *SMHIService {
	return &SMHIService{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
		logger: logger,
		tele:   tele,
	}
}

func (s *SMHIService) Name() string {
	return "smhi"
}

// PointURL builds the pmp3g point URL. Coordinates are rounded to four
// decimals first; the service rejects longer representations.
func (s *SMHIService) PointURL(coords types.Coordinates) string {
	c := coords.Rounded()
	return s.baseURL + fmt.Sprintf(smhiPointPath,
		url.PathEscape(types.FormatCoordinate(c.Longitude)),
		url.PathEscape(types.FormatCoordinate(c.Latitude)))
}

// FetchPoint returns the response body whatever the HTTP status; out-of-bounds
// answers are recognised by the caller from the body text.
func (s *SMHIService) FetchPoint(ctx context.Context, coords types.Coordinates) (string, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "smhi.FetchPoint")
	defer span.End()

	link := s.PointURL(coords)
	span.SetAttributes(
		attribute.Float64("lat", coords.Latitude),
		attribute.Float64("lon", coords.Longitude),
		attribute.String("url", link),
	)

	s.logger.Debug("Fetching point forecast",
		zap.Float64("lat", coords.Latitude),
		zap.Float64("lon", coords.Longitude),
		zap.String("url", link))

	start := time.Now()
	body, status, err := get(ctx, s.client, link)
	if err != nil {
		err = &TransportError{Service: s.Name(), Err: err}
		s.tele.RecordError(ctx, err)
		return "", err
	}

	span.SetAttributes(
		attribute.Int("http.status_code", status),
		attribute.Int("body_size", len(body)),
	)
	s.logger.Debug("Point forecast received",
		zap.Int("status", status),
		zap.Int("body_size", len(body)),
		zap.Duration("latency", time.Since(start)))

	return body, nil
}

func get(ctx context.Context, client *http.Client, link string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	return string(body), resp.StatusCode, nil
}
