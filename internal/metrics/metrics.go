// Package metrics exposes Prometheus collectors for the rendering service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests, labeled by method and code.",
		},
		[]string{"method", "code"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, labeled by method and route.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	ssrPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssr_pages_total",
			Help: "Total number of server-rendered documents, labeled by route and outcome.",
		},
		[]string{"route", "outcome"},
	)

	ssrSliceFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssr_slice_failures_total",
			Help: "Backend reads that failed and were degraded to an empty slice, labeled by slice.",
		},
		[]string{"slice"},
	)

	ssrPipelineFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssr_pipeline_failures_total",
			Help: "Requests answered with the error document, labeled by failing stage.",
		},
		[]string{"stage"},
	)

	backendReadDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_read_duration_seconds",
			Help:    "Histogram of data store read latencies, labeled by slice and outcome.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 3},
		},
		[]string{"slice", "outcome"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_cache_lookups_total",
			Help: "Redis read-through cache lookups, labeled by kind and result.",
		},
		[]string{"kind", "result"},
	)

	assetRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_requests_total",
			Help: "Static asset requests, labeled by result.",
		},
		[]string{"result"},
	)
)

// Handler returns the standard Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest records metrics for an HTTP request.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObservePage counts a rendered document for route; outcome is "ok" or "error".
func ObservePage(route, outcome string) {
	ssrPagesTotal.WithLabelValues(route, outcome).Inc()
}

// ObserveSliceRead records a backend read for slice. A non-nil err counts as a slice failure.
func ObserveSliceRead(slice string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		ssrSliceFailuresTotal.WithLabelValues(slice).Inc()
	}
	backendReadDurationSeconds.WithLabelValues(slice, outcome).Observe(duration.Seconds())
}

// ObservePipelineFailure counts a request that ended in the error document.
func ObservePipelineFailure(stage string) {
	ssrPipelineFailuresTotal.WithLabelValues(stage).Inc()
}

// ObserveCacheLookup counts a cache lookup; result is "hit", "miss" or "error".
func ObserveCacheLookup(kind, result string) {
	cacheLookupsTotal.WithLabelValues(kind, result).Inc()
}

// ObserveAsset counts a static asset request; result is "served" or "not_found".
func ObserveAsset(result string) {
	assetRequestsTotal.WithLabelValues(result).Inc()
}
