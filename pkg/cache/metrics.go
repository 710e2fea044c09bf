package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	layerRedis  = "redis"
	layerMemory = "memory"
)

var (
	// CacheHits tracks cache hits by layer (redis, memory)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vimeo_cache_hits_total",
			Help: "Total number of Vimeo payload cache hits",
		},
		[]string{"layer"},
	)

	// CacheMisses tracks cache misses by layer
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vimeo_cache_misses_total",
			Help: "Total number of Vimeo payload cache misses",
		},
		[]string{"layer"},
	)

	// CacheWrites tracks stored payloads by layer
	CacheWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vimeo_cache_writes_total",
			Help: "Total number of payloads written to the cache",
		},
		[]string{"layer"},
	)

	// CacheSize tracks bytes written by layer
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vimeo_cache_size_bytes",
			Help: "Approximate size of the Vimeo payload cache in bytes",
		},
		[]string{"layer"},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vimeo_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
