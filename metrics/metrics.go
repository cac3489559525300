package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Requests served by the api, labeled by method, route and status code.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seareach_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seareach_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// Isochrone computations, source is "request" or "batch".
	IsochroneDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seareach_isochrone_duration_seconds",
			Help:    "Duration of labeling plus frontier extraction",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	RouteCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seareach_route_cache_lookups_total",
			Help: "Route cache lookups by result",
		},
		[]string{"result"},
	)

	BatchArtifactsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seareach_batch_artifacts_written_total",
			Help: "Precomputed isochrone files written",
		},
	)

	GraphNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "seareach_graph_nodes",
			Help: "Number of nodes in the loaded navigation graph",
		},
	)
)
