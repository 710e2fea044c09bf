// Package metrics provides centralized Prometheus metrics registry for the Vimeo client.
// All metrics are defined in their respective packages (client, transport, cache, ratelimit)
// to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and the HTTP exposition handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the Vimeo client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer collects the metrics registered in Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the metrics gathered by g in the Prometheus exposition
// format. A nil g serves Gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = Gatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Dispatch Metrics (pkg/client):
//   - vimeo_dispatches_total{policy} (Counter): Dispatches by cache fetch policy
//   - vimeo_dispatch_duration_seconds{policy} (Histogram): Dispatch duration until the last delivery
//   - vimeo_deliveries_total{source} (Counter): Successful deliveries by source (network, cache)
//   - vimeo_dispatch_errors_total{kind} (Counter): Failed deliveries by error kind
//
// Request Metrics (pkg/transport):
//   - vimeo_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - vimeo_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - vimeo_transport_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//   - vimeo_retries_total{error_class} (Counter): Retry attempts by error class
//
// Rate Limit Metrics (pkg/ratelimit):
//   - vimeo_rate_limit_remaining (Gauge): Requests remaining in the Vimeo rate limit window
//   - vimeo_rate_limit_blocks_total (Counter): Requests blocked due to an exhausted quota
//   - vimeo_rate_limit_throttles_total (Counter): Requests throttled due to a low quota
//
// Cache Metrics (pkg/cache):
//   - vimeo_cache_hits_total{layer} (Counter): Cache hits by layer (redis, memory)
//   - vimeo_cache_misses_total{layer} (Counter): Cache misses by layer
//   - vimeo_cache_writes_total{layer} (Counter): Stored payloads by layer
//   - vimeo_cache_size_bytes{layer} (Gauge): Approximate cache size in bytes
//   - vimeo_cache_errors_total{operation} (Counter): Cache operation errors
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(vimeo_cache_hits_total[5m])) /
//   (sum(rate(vimeo_cache_hits_total[5m])) + sum(rate(vimeo_cache_misses_total[5m])))
//
//   # Quota Status
//   vimeo_rate_limit_remaining < 10
//
//   # Mapping Failures
//   rate(vimeo_dispatch_errors_total{kind="mapping_failed"}[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(vimeo_request_duration_seconds_bucket[5m]))
//
//   # Cache Fallback Rate
//   rate(vimeo_deliveries_total{source="cache"}[5m]) / rate(vimeo_deliveries_total[5m])
