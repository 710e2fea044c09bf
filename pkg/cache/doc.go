// Package cache stores raw Vimeo API payloads keyed by request identity.
//
// Two Store implementations are provided:
//
// - Manager, backed by Redis, shared between processes
// - MemoryStore, an in-process LRU for single-process deployments and tests
//
// Both keep entries until their Expires time, which is derived from the
// response's Cache-Control max-age or Expires header with a configurable
// fallback TTL.
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Create cache manager
//	manager := cache.NewManager(redisClient)
//
//	// Create cache key
//	key := cache.NewKey("GET", "/me/videos", url.Values{"per_page": {"25"}})
//
//	// Get from cache
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// Cache miss - fetch from the API
//	}
//
// # Storing Payloads
//
//	entry := cache.NewEntry(body, http.StatusOK, header, time.Hour)
//	if err := manager.Set(ctx, key, entry); err != nil {
//		return err
//	}
//
// # Keys
//
// Key.String is deterministic: parameters are sorted and a query string
// embedded in the path is folded into the parameters. Key.StorageKey hashes
// that string with xxhash so stored keys stay short:
//
//	vimeo:cache:3f1c9a2b7d4e5f60
//
// # Metrics
//
// The stores export Prometheus metrics:
//
//   - vimeo_cache_hits_total{layer} - Cache hits
//   - vimeo_cache_misses_total{layer} - Cache misses
//   - vimeo_cache_writes_total{layer} - Stored payloads
//   - vimeo_cache_size_bytes{layer} - Approximate cache size
//   - vimeo_cache_errors_total{operation} - Cache operation errors
package cache
