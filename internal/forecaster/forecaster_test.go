package forecaster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vzahanych/weather-report/internal/location"
	"github.com/vzahanych/weather-report/internal/report"
	"github.com/vzahanych/weather-report/internal/service"
	"github.com/vzahanych/weather-report/internal/types"
	"github.com/vzahanych/weather-report/pkg/telemetry"
)

const pointBody = `{
  "approvedTime": "2024-01-15T10:05:43Z",
  "referenceTime": "2024-01-15T10:00:00Z",
  "geometry": {"type": "Point", "coordinates": [[13.193374, 55.706431]]},
  "timeSeries": [
    {
      "validTime": "2024-01-15T11:00:00Z",
      "parameters": [
        {"name": "t", "levelType": "hl", "level": 2, "unit": "Cel", "values": [-2.5]},
        {"name": "Wsymb2", "levelType": "hl", "level": 0, "unit": "category", "values": [1]}
      ]
    }
  ]
}`

type mockResolver struct {
	coords types.Coordinates
	err    error
}

func (m *mockResolver) Resolve(_ context.Context, _ location.Query) (types.Coordinates, error) {
	return m.coords, m.err
}

type mockForecastService struct {
	body   string
	err    error
	calls  int
	coords types.Coordinates
}

func (m *mockForecastService) FetchPoint(_ context.Context, coords types.Coordinates) (string, error) {
	m.calls++
	m.coords = coords
	return m.body, m.err
}

func (m *mockForecastService) Name() string { return "mock" }

type mockMetrics struct {
	outcomes  []string
	upstreams []string
}

func (m *mockMetrics) RecordForecast(outcome string) { m.outcomes = append(m.outcomes, outcome) }

func (m *mockMetrics) ObserveUpstream(service string, _ time.Duration) {
	m.upstreams = append(m.upstreams, service)
}

func createTestForecaster(t *testing.T, resolver Resolver, svc service.ForecastService) (*Forecaster, *mockMetrics) {
	t.Helper()
	f := NewForecaster(resolver, svc, zaptest.NewLogger(t), &telemetry.Telemetry{})
	m := &mockMetrics{}
	f.SetMetricsRecorder(m)
	return f, m
}

var lund = types.NewCoords(55.7058, 13.1932)

func TestForecaster_Forecast(t *testing.T) {
	svc := &mockForecastService{body: pointBody}
	f, m := createTestForecaster(t, &mockResolver{coords: lund}, svc)

	result, err := f.Forecast(context.Background(), location.Query{Coordinates: "55.7058,13.1932"})
	require.NoError(t, err)

	assert.Equal(t, lund, result.Coordinates)
	assert.Equal(t, lund, svc.coords)
	assert.Equal(t, 1, result.Report.Len())
	assert.InDelta(t, 0.07, result.GridDistanceKm, 0.02)
	assert.Equal(t, []string{OutcomeOK}, m.outcomes)
	assert.Equal(t, []string{"mock"}, m.upstreams)
}

func TestForecaster_ResolveError(t *testing.T) {
	svc := &mockForecastService{body: pointBody}
	f, m := createTestForecaster(t, &mockResolver{err: location.ErrInvalidFormat}, svc)

	_, err := f.Forecast(context.Background(), location.Query{Coordinates: "north"})
	assert.ErrorIs(t, err, location.ErrInvalidFormat)
	assert.Zero(t, svc.calls)
	assert.Equal(t, []string{OutcomeResolveError}, m.outcomes)
}

func TestForecaster_TransportError(t *testing.T) {
	transportErr := &service.TransportError{Service: "smhi", Err: errors.New("connection refused")}
	f, m := createTestForecaster(t, &mockResolver{coords: lund}, &mockForecastService{err: transportErr})

	_, err := f.Forecast(context.Background(), location.Query{Coordinates: "55.7058,13.1932"})

	var te *service.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "smhi", te.Service)
	assert.NotErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, []string{OutcomeTransportError}, m.outcomes)
}

func TestForecaster_OutOfBounds(t *testing.T) {
	body := `{"message": "` + report.OutOfBoundsMessage + `"}`
	f, m := createTestForecaster(t, &mockResolver{coords: types.NewCoords(0, -30)}, &mockForecastService{body: body})

	_, err := f.Forecast(context.Background(), location.Query{Coordinates: "0,-30"})
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, []string{OutcomeOutOfBounds}, m.outcomes)
}

func TestForecaster_DecodeError(t *testing.T) {
	f, m := createTestForecaster(t, &mockResolver{coords: lund}, &mockForecastService{body: `{"approvedTime": 5}`})

	_, err := f.Forecast(context.Background(), location.Query{Coordinates: "55.7058,13.1932"})

	var de *report.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, []string{OutcomeDecodeError}, m.outcomes)
}

func TestForecaster_Dump(t *testing.T) {
	fs := afero.NewMemMapFs()
	f, _ := createTestForecaster(t, &mockResolver{coords: lund}, &mockForecastService{body: pointBody})
	f.SetDump(fs, "/tmp/data.json")

	_, err := f.Forecast(context.Background(), location.Query{Coordinates: "55.7058,13.1932"})
	require.NoError(t, err)

	written, err := afero.ReadFile(fs, "/tmp/data.json")
	require.NoError(t, err)
	assert.Equal(t, pointBody, string(written))
}

func TestForecaster_DumpWrittenBeforeOutOfBounds(t *testing.T) {
	fs := afero.NewMemMapFs()
	body := report.OutOfBoundsMessage
	f, _ := createTestForecaster(t, &mockResolver{coords: lund}, &mockForecastService{body: body})
	f.SetDump(fs, "data.json")

	_, err := f.Forecast(context.Background(), location.Query{Coordinates: "55.7058,13.1932"})
	require.ErrorIs(t, err, ErrOutOfBounds)

	written, err := afero.ReadFile(fs, "data.json")
	require.NoError(t, err)
	assert.Equal(t, body, string(written))
}

func TestForecaster_DumpFailureDoesNotFailLookup(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	f, _ := createTestForecaster(t, &mockResolver{coords: lund}, &mockForecastService{body: pointBody})
	f.SetDump(fs, "data.json")

	_, err := f.Forecast(context.Background(), location.Query{Coordinates: "55.7058,13.1932"})
	assert.NoError(t, err)
}

func TestForecaster_WithoutMetrics(t *testing.T) {
	f := NewForecaster(&mockResolver{coords: lund}, &mockForecastService{body: pointBody}, zaptest.NewLogger(t), nil)

	_, err := f.Forecast(context.Background(), location.Query{Coordinates: "55.7058,13.1932"})
	assert.NoError(t, err)
}

func TestGridDistanceKm_NoPoint(t *testing.T) {
	assert.Equal(t, -1.0, gridDistanceKm(lund, report.Geometry{Kind: "Point"}))
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}
