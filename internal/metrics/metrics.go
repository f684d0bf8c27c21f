// File: internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the risk engine
type Metrics struct {
	// Analysis metrics
	AnalysesTotal     *prometheus.CounterVec
	AnalysisDuration  prometheus.Histogram
	MixerMatchesTotal prometheus.Counter

	// Explorer metrics
	ExplorerRequestsTotal *prometheus.CounterVec

	// Monitoring metrics
	MonitoringEventsTotal *prometheus.CounterVec
	ProviderFailuresTotal *prometheus.CounterVec
	WatchesScheduledTotal prometheus.Counter

	// API metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		AnalysesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archeblow_analyses_total",
				Help: "Total number of address analyses performed",
			},
			[]string{"network", "risk_level"},
		),

		AnalysisDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "archeblow_analysis_duration_seconds",
				Help:    "Time spent performing individual address analyses",
				Buckets: prometheus.DefBuckets,
			},
		),

		MixerMatchesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "archeblow_mixer_matches_total",
				Help: "Total number of mixer associations detected",
			},
		),

		ExplorerRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archeblow_explorer_requests_total",
				Help: "Total number of explorer API requests by provider and outcome",
			},
			[]string{"provider", "status"},
		),

		MonitoringEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archeblow_monitoring_events_total",
				Help: "Total number of monitoring events recorded by level",
			},
			[]string{"level"},
		),

		ProviderFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archeblow_provider_failures_total",
				Help: "Total number of upstream provider failures recorded",
			},
			[]string{"provider"},
		),

		WatchesScheduledTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "archeblow_watches_scheduled_total",
				Help: "Total number of address watches scheduled",
			},
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archeblow_http_requests_total",
				Help: "Total number of HTTP API requests",
			},
			[]string{"method", "path", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "archeblow_http_request_duration_seconds",
				Help:    "HTTP API request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}
