// Package metrics exposes Prometheus collectors for brandscan runs.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	recordsTotal           *prometheus.CounterVec
	resolveDurationSeconds *prometheus.HistogramVec
	runsTotal              *prometheus.CounterVec
	runDurationSeconds     *prometheus.HistogramVec
	activeWorkers          prometheus.Gauge
	queueDepth             prometheus.Gauge
	httpRequestsTotal      *prometheus.CounterVec
	httpRequestDuration    *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		recordsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brandscan_records_total",
				Help: "Total number of metadata records emitted, labeled by strategy.",
			},
			[]string{"strategy"},
		)

		resolveDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brandscan_resolve_duration_seconds",
				Help:    "Histogram of per-host resolve latencies, labeled by outcome.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"outcome"},
		)

		runsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brandscan_runs_total",
				Help: "Total number of strategy runs, labeled by strategy and status.",
			},
			[]string{"strategy", "status"},
		)

		runDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brandscan_run_duration_seconds",
				Help:    "Histogram of whole-run durations, labeled by strategy.",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
			[]string{"strategy"},
		)

		activeWorkers = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "brandscan_active_workers",
				Help: "Number of pool workers currently resolving a host.",
			},
		)

		queueDepth = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "brandscan_queue_depth",
				Help: "Number of hosts waiting in pool task queues.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brandscan_http_requests_total",
				Help: "Requests served by the status endpoint, labeled by method, route and status code.",
			},
			[]string{"method", "route", "code"},
		)

		httpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brandscan_http_request_duration_seconds",
				Help:    "Latency of status endpoint requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRecord counts one record emitted by strategy.
func ObserveRecord(strategy string) {
	Init()
	recordsTotal.WithLabelValues(strategy).Inc()
}

// ObserveResolve records the latency of one resolve with its outcome.
func ObserveResolve(outcome string, duration time.Duration) {
	Init()
	resolveDurationSeconds.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveRun counts a finished run and records its duration.
func ObserveRun(strategy, status string, duration time.Duration) {
	Init()
	runsTotal.WithLabelValues(strategy, status).Inc()
	runDurationSeconds.WithLabelValues(strategy).Observe(duration.Seconds())
}

// IncActiveWorkers increments the active workers gauge.
func IncActiveWorkers() {
	Init()
	activeWorkers.Inc()
}

// DecActiveWorkers decrements the active workers gauge.
func DecActiveWorkers() {
	Init()
	activeWorkers.Dec()
}

// AddQueueDepth adjusts the queue depth gauge by delta.
func AddQueueDepth(delta int) {
	Init()
	queueDepth.Add(float64(delta))
}

// ObserveHTTPRequest records one request served by the status endpoint.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
