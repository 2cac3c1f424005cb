package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for forecast lookups and the HTTP surface.
type Metrics struct {
	ForecastRequests  *prometheus.CounterVec // labels: outcome={ok,out_of_bounds,resolve_error,transport_error,decode_error}
	UpstreamDuration  *prometheus.HistogramVec
	HTTPRequests      *prometheus.CounterVec // labels: method, route, status
	HTTPDuration      *prometheus.HistogramVec
	HTTPActiveRequest prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_report",
			Name:      "forecast_requests_total",
			Help:      "Forecast lookups by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_report",
			Name:      "upstream_duration_seconds",
			Help:      "Duration of geocoding and forecast API calls.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"service"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_report",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_report",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		HTTPActiveRequest: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_report",
			Name:      "http_active_requests",
			Help:      "Requests currently being served.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.ForecastRequests,
			m.UpstreamDuration,
			m.HTTPRequests,
			m.HTTPDuration,
			m.HTTPActiveRequest,
		)
	}

	return m
}

// NewMetricsForTesting creates unregistered collectors.
func NewMetricsForTesting() *Metrics {
	return NewMetrics(nil)
}

func (m *Metrics) RecordForecast(outcome string) {
	m.ForecastRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveUpstream(service string, d time.Duration) {
	m.UpstreamDuration.WithLabelValues(service).Observe(d.Seconds())
}
