package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-report/internal/config"
	"github.com/vzahanych/weather-report/pkg/telemetry"
)

const geocodePath = "/maps/api/geocode/json"

// GoogleGeocodeService talks to the Google Geocoding API.
type GoogleGeocodeService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewGoogleGeocodeServiceWithConfig(cfg config.GeocodeConfig, apiKey string, logger *zap.Logger, tele *telemetry.Telemetry) *GoogleGeocodeService {
	return &GoogleGeocodeService{
		baseURL: cfg.BaseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
		logger: logger,
		tele:   tele,
	}
}

func (s *GoogleGeocodeService) Name() string {
	return "google-geocode"
}

func (s *GoogleGeocodeService) Geocode(ctx context.Context, address string) (string, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "geocode.Geocode")
	defer span.End()

	span.SetAttributes(attribute.String("address", address))

	u, err := url.Parse(s.baseURL + geocodePath)
	if err != nil {
		return "", fmt.Errorf("parse geocode URL: %w", err)
	}

	q := u.Query()
	q.Set("address", address)
	q.Set("key", s.apiKey)
	u.RawQuery = q.Encode()

	s.logger.Debug("Geocoding address", zap.String("address", address))

	body, status, err := get(ctx, s.client, u.String())
	if err != nil {
		err = &TransportError{Service: s.Name(), Err: err}
		s.tele.RecordError(ctx, err)
		return "", err
	}

	span.SetAttributes(attribute.Int("http.status_code", status))
	if status != http.StatusOK {
		s.logger.Warn("Geocoding API returned non-OK status",
			zap.String("address", address),
			zap.Int("status", status))
	}

	return body, nil
}
