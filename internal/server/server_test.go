package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vzahanych/weather-report/internal/config"
	"github.com/vzahanych/weather-report/internal/forecaster"
	"github.com/vzahanych/weather-report/internal/location"
	"github.com/vzahanych/weather-report/internal/observability"
	"github.com/vzahanych/weather-report/internal/report"
	"github.com/vzahanych/weather-report/internal/server/handlers"
	"github.com/vzahanych/weather-report/internal/types"
)

type fakeForecaster struct {
	rep   *report.Report
	err   error
	query location.Query
}

func (f *fakeForecaster) Forecast(_ context.Context, q location.Query) (*forecaster.Result, error) {
	f.query = q
	if f.err != nil {
		return nil, f.err
	}
	return &forecaster.Result{Coordinates: types.NewCoords(55.7058, 13.1932), Report: f.rep}, nil
}

func loadReport(t *testing.T) *report.Report {
	t.Helper()
	body, err := os.ReadFile("../report/testdata/forecast.json")
	require.NoError(t, err)
	rep, err := report.Decode(string(body))
	require.NoError(t, err)
	return rep
}

func createTestServer(t *testing.T, fc handlers.Forecaster) (*Server, *prometheus.Registry) {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.Display.Timezone = "UTC"

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC))

	return NewServer(cfg, fc, metrics, registry, clock, zaptest.NewLogger(t), nil), registry
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestForecast_Coordinates(t *testing.T) {
	fc := &fakeForecaster{rep: loadReport(t)}
	s, _ := createTestServer(t, fc)

	rec := get(t, s, "/forecast?lat=55.70584&lon=13.19321&events=2")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "55.70584,13.19321", fc.query.Coordinates)
	assert.Empty(t, fc.query.Description)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	body := rec.Body.String()
	assert.Contains(t, body, "🕐 Today 11:00\nClear sky")
	assert.Contains(t, body, "Moderate rain")
}

func TestForecast_DefaultEvents(t *testing.T) {
	s, _ := createTestServer(t, &fakeForecaster{rep: loadReport(t)})

	rec := get(t, s, "/forecast?description=Lund")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Moderate rain")
}

func TestForecast_InvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"latitude out of range", "/forecast?lat=91&lon=13"},
		{"longitude out of range", "/forecast?lat=55&lon=181"},
		{"lat without lon", "/forecast?lat=55"},
		{"not a number", "/forecast?lat=north&lon=13"},
		{"too many events", "/forecast?lat=55&lon=13&events=51"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeForecaster{rep: loadReport(t)}
			s, _ := createTestServer(t, fc)

			rec := get(t, s, tt.target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, location.Query{}, fc.query)

			var resp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "INVALID_PARAMS", resp.Code)
		})
	}
}

func TestForecast_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: 0,-30", forecaster.ErrOutOfBounds), http.StatusUnprocessableEntity, "OUT_OF_BOUNDS"},
		{fmt.Errorf("%w: give one", location.ErrInvalidFormat), http.StatusBadRequest, "INVALID_PARAMS"},
		{fmt.Errorf("%w: results", location.ErrMissingField), http.StatusNotFound, "LOCATION_NOT_FOUND"},
		{fmt.Errorf("%w: refused", location.ErrTransport), http.StatusBadGateway, "UPSTREAM_ERROR"},
		{&report.DecodeError{Path: "approvedTime", Reason: "missing"}, http.StatusBadGateway, "UPSTREAM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			s, _ := createTestServer(t, &fakeForecaster{err: tt.err})

			rec := get(t, s, "/forecast?description=somewhere")

			assert.Equal(t, tt.status, rec.Code)
			var resp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestRequestIDPropagated(t *testing.T) {
	s, _ := createTestServer(t, &fakeForecaster{rep: loadReport(t)})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := createTestServer(t, &fakeForecaster{})

	for path, status := range map[string]string{
		"/health":       "ok",
		"/health/live":  "alive",
		"/health/ready": "ready",
	} {
		rec := get(t, s, path)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var resp handlers.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, status, resp.Status, path)
	}
}

func TestReadinessWithoutForecaster(t *testing.T) {
	s, _ := createTestServer(t, nil)

	rec := get(t, s, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := createTestServer(t, &fakeForecaster{rep: loadReport(t)})

	get(t, s, "/forecast?lat=55.7&lon=13.1")
	get(t, s, "/nowhere")

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `weather_report_http_requests_total{method="GET",route="/forecast",status="200"} 1`)
	assert.Contains(t, body, `route="unmatched",status="404"`)
	assert.True(t, strings.Contains(body, "weather_report_http_request_duration_seconds_bucket"))
}

func TestRecoveryMiddleware(t *testing.T) {
	s, _ := createTestServer(t, &fakeForecaster{})
	s.engine.GET("/panic", func(*gin.Context) { panic(errors.New("boom")) })

	rec := get(t, s, "/panic")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
