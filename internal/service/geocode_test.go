package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vzahanych/weather-report/internal/config"
	"github.com/vzahanych/weather-report/pkg/telemetry"
)

func TestGoogleGeocodeService_Geocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		assert.Equal(t, "Lund, Sweden", r.URL.Query().Get("address"))
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{"results":[],"status":"ZERO_RESULTS"}`))
	}))
	defer srv.Close()

	s := NewGoogleGeocodeServiceWithConfig(config.GeocodeConfig{BaseURL: srv.URL, Timeout: 5}, "secret", zaptest.NewLogger(t), &telemetry.Telemetry{})

	body, err := s.Geocode(context.Background(), "Lund, Sweden")
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":[],"status":"ZERO_RESULTS"}`, body)
}

func TestGoogleGeocodeService_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	s := NewGoogleGeocodeServiceWithConfig(config.GeocodeConfig{BaseURL: srv.URL, Timeout: 5}, "k", zaptest.NewLogger(t), nil)

	_, err := s.Geocode(context.Background(), "Lund")
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "google-geocode", transportErr.Service)
}
