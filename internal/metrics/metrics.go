// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// once guards registration; the default registry panics on duplicates.
	once sync.Once

	// ClicksRecorded counts click events persisted, labelled by kind (link|domain).
	ClicksRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkbio_clicks_recorded_total",
			Help: "Click events persisted, by target kind.",
		},
		[]string{"kind"},
	)

	// ClicksDropped counts events discarded because the buffer was full or closed.
	ClicksDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "linkbio_clicks_dropped_total",
		Help: "Click events dropped before persistence.",
	})

	// ClickPersistFailures counts failed inserts of click events.
	ClickPersistFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "linkbio_click_persist_failures_total",
		Help: "Click events that could not be written.",
	})

	// OrderUpdateFailures counts order-key writes that failed during a reorder commit.
	OrderUpdateFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "linkbio_order_update_failures_total",
		Help: "Link order key updates that failed.",
	})

	// UnreachableTargets is the number of link/domain URLs that failed the last health check.
	UnreachableTargets = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "linkbio_unreachable_targets",
		Help: "Monitored URLs found unreachable on the last check.",
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkbio_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linkbio_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Init registers every collector with the default registry, once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			ClicksRecorded,
			ClicksDropped,
			ClickPersistFailures,
			OrderUpdateFailures,
			UnreachableTargets,
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
		)
	})
}
