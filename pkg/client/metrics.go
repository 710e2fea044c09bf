package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for dispatches.
var (
	vimeoDispatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vimeo_dispatches_total",
		Help: "Total dispatched requests by cache fetch policy",
	}, []string{"policy"})

	vimeoDispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vimeo_dispatch_duration_seconds",
		Help:    "Dispatch duration in seconds by cache fetch policy, including every delivery",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"policy"})

	vimeoDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vimeo_deliveries_total",
		Help: "Total successful deliveries by source",
	}, []string{"source"})

	vimeoDispatchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vimeo_dispatch_errors_total",
		Help: "Total failed deliveries by error kind",
	}, []string{"kind"})
)
