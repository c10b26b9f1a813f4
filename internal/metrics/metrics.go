// Package metrics holds the Prometheus collectors for the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "furnishly_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "furnishly_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Catalog
	CatalogProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "furnishly_catalog_products",
			Help: "Number of products loaded into the catalog",
		},
	)

	// Recommendations
	RecommendationResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "furnishly_recommendation_results",
			Help:    "Number of products returned per recommendation request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	// Generative copy
	DescriptionsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "furnishly_descriptions_total",
			Help: "Generated product descriptions by outcome (generated, cached, fallback)",
		},
		[]string{"outcome"},
	)

	// Vector search
	VectorRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "furnishly_vector_requests_total",
			Help: "Vector index requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	VectorCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "furnishly_vector_circuit_state",
			Help: "Vector index circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordVectorRequest records the outcome of a vector index call
func RecordVectorRequest(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	VectorRequests.WithLabelValues(operation, outcome).Inc()
}
