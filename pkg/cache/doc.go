// Package cache provides a Redis-backed cache for search page responses.
//
// Re-running the collector during development hammers the same search pages
// over and over; the cache keeps a short-lived copy of each page so repeated
// runs stay polite to the API. It is an optional layer: the client works
// identically without a manager, and cache failures always degrade to a
// direct fetch.
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Create cache manager with a 10 minute TTL
//	manager := cache.NewManager(redisClient, 10*time.Minute)
//
//	// Create cache key
//	key := cache.CacheKey{
//		Endpoint:    "/vacancies",
//		QueryParams: url.Values{"area": []string{"113"}, "page": []string{"0"}},
//	}
//
//	// Get from cache
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// Cache miss - fetch from the API
//	}
//
//	// Store a fetched page
//	if err := manager.Set(ctx, key, cache.NewEntry(body, 200)); err != nil {
//		// Log and continue - caching is best effort
//	}
//
// # Metrics
//
// The cache manager exports Prometheus metrics:
//
//   - hh_cache_hits_total{layer="redis"} - Cache hits
//   - hh_cache_misses_total - Cache misses
//   - hh_cache_size_bytes{layer="redis"} - Bytes written
//   - hh_cache_errors_total{operation} - Cache operation errors
//
// Entries expire via the Redis TTL; the manager double-checks expiry on read
// so a shortened TTL setting takes effect without a flush.
package cache
