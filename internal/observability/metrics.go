package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	httpErrorsTotal      *prometheus.CounterVec
	geocoderRequests     *prometheus.CounterVec
	geocoderLatency      prometheus.Histogram
	directoryLookups     *prometheus.CounterVec
	directoryLookupTimes *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		geocoderRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "geocoder_requests_total",
			Help: "Reverse geocode lookups by outcome (hit, miss, error).",
		}, []string{"outcome"})

		geocoderLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "geocoder_latency_seconds",
			Help:    "Latency of reverse geocode lookups against the provider.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		})

		directoryLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "directory_lookups_total",
			Help: "Directory queries by operation and outcome (found, empty, invalid, error).",
		}, []string{"operation", "outcome"})

		directoryLookupTimes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "directory_lookup_duration_seconds",
			Help:    "Latency of directory queries by operation.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			geocoderRequests,
			geocoderLatency,
			directoryLookups,
			directoryLookupTimes,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// GeocoderRequests exposes the reverse geocode outcome counter.
func GeocoderRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return geocoderRequests
}

// GeocoderLatency exposes the reverse geocode latency histogram.
func GeocoderLatency() prometheus.Histogram {
	RegisterMetrics()
	return geocoderLatency
}

// DirectoryLookups exposes the directory query outcome counter.
func DirectoryLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return directoryLookups
}

// DirectoryLookupLatency exposes the directory query latency histogram.
func DirectoryLookupLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return directoryLookupTimes
}
