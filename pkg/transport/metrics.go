package transport

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for HTTP calls.
var (
	vimeoRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vimeo_requests_total",
		Help: "Total Vimeo API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	vimeoRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vimeo_request_duration_seconds",
		Help:    "Vimeo API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	vimeoTransportErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vimeo_transport_errors_total",
		Help: "Total failed Vimeo API calls by error class",
	}, []string{"class"})

	vimeoRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vimeo_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})
)
