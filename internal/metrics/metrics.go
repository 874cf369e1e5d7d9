// Package metrics provides Prometheus metrics for the trip dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Registry is the Prometheus registry for this metrics instance
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Transport metrics
	PollsTotal        prometheus.Counter
	PollFailuresTotal prometheus.Counter
	PollDuration      prometheus.Histogram
	StreamFramesTotal prometheus.Counter
	StreamDropsTotal  prometheus.Counter
	FallbacksTotal    prometheus.Counter
	TripChangesTotal  prometheus.Counter
	StreamingActive   prometheus.Gauge

	// SnapshotAgeSeconds tracks the age of the last GPS sample at the
	// time each snapshot was stored.
	SnapshotAgeSeconds prometheus.Gauge
}

// New creates and registers all application metrics with a new registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	pollsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_snapshot_polls_total",
		Help: "Total snapshot poll attempts",
	})

	pollFailuresTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_snapshot_poll_failures_total",
		Help: "Total snapshot poll attempts that ended in a network fault",
	})

	pollDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_snapshot_poll_duration_seconds",
		Help:    "Snapshot fetch latency distribution",
		Buckets: prometheus.DefBuckets,
	})

	streamFramesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_stream_frames_total",
		Help: "Total inbound stream frames carrying a snapshot",
	})

	streamDropsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_stream_dropped_frames_total",
		Help: "Total inbound stream frames dropped as malformed or irrelevant",
	})

	fallbacksTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_stream_fallbacks_total",
		Help: "Total automatic streaming-to-polling fallbacks",
	})

	tripChangesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_trip_changes_total",
		Help: "Total trip re-selections",
	})

	streamingActive := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_streaming_active",
		Help: "1 while the push transport is the active strategy",
	})

	snapshotAgeSeconds := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_snapshot_age_seconds",
		Help: "Age of the last GPS sample when the latest snapshot was stored",
	})

	registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		pollsTotal,
		pollFailuresTotal,
		pollDuration,
		streamFramesTotal,
		streamDropsTotal,
		fallbacksTotal,
		tripChangesTotal,
		streamingActive,
		snapshotAgeSeconds,
	)

	return &Metrics{
		Registry:            registry,
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPRequestDuration: httpRequestDuration,
		PollsTotal:          pollsTotal,
		PollFailuresTotal:   pollFailuresTotal,
		PollDuration:        pollDuration,
		StreamFramesTotal:   streamFramesTotal,
		StreamDropsTotal:    streamDropsTotal,
		FallbacksTotal:      fallbacksTotal,
		TripChangesTotal:    tripChangesTotal,
		StreamingActive:     streamingActive,
		SnapshotAgeSeconds:  snapshotAgeSeconds,
	}
}
