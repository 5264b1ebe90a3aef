// Package metrics provides the centralized Prometheus metrics registry for
// the collector. All metrics are defined in their respective packages (hh,
// cache, collector) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the collector.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/hh):
//   - hh_requests_total{status} (Counter): Total search requests by HTTP status or error kind
//   - hh_request_duration_seconds (Histogram): Page fetch duration including retries
//
// Retry Metrics (pkg/hh):
//   - hh_retries_total{error_class} (Counter): Retry attempts by error class (network, http, rate_limit, decode)
//   - hh_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - hh_retry_exhausted_total{error_class} (Counter): Pages given up after spending the attempt budget
//   - hh_rate_limit_waits_total (Counter): Honored Retry-After waits; these never consume the attempt budget
//
// Cache Metrics (pkg/cache):
//   - hh_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - hh_cache_misses_total (Counter): Cache misses
//   - hh_cache_size_bytes{layer="redis"} (Gauge): Bytes written to the cache
//   - hh_cache_errors_total{operation} (Counter): Cache operation errors
//
// Collection Metrics (pkg/collector):
//   - hh_pages_total{result} (Counter): Pages processed, by "ok" or "skipped"
//   - hh_items_seen_total (Counter): Raw items seen across fetched pages
//   - hh_vacancies_collected_total (Counter): Items that passed extraction and the city filter
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(hh_cache_hits_total[5m])) /
//   (sum(rate(hh_cache_hits_total[5m])) + sum(rate(hh_cache_misses_total[5m])))
//
//   # Pages Lost to Retry Exhaustion
//   sum(rate(hh_pages_total{result="skipped"}[5m]))
//
//   # Match Rate of the City Filter
//   rate(hh_vacancies_collected_total[5m]) / rate(hh_items_seen_total[5m])
//
//   # P95 Page Fetch Latency
//   histogram_quantile(0.95, rate(hh_request_duration_seconds_bucket[5m]))
