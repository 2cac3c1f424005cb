package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordForecast(t *testing.T) {
	m := NewMetricsForTesting()

	m.RecordForecast("ok")
	m.RecordForecast("ok")
	m.RecordForecast("out_of_bounds")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ForecastRequests.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ForecastRequests.WithLabelValues("out_of_bounds")))
}

func TestMetrics_Registration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.ObserveUpstream("smhi", 120*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "weather_report_upstream_duration_seconds")
	assert.Contains(t, names, "weather_report_http_active_requests")
}
