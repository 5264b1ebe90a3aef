package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// CacheKey represents a unique identifier for a cached search response.
type CacheKey struct {
	// Endpoint is the API path (e.g., "/vacancies")
	Endpoint string

	// QueryParams are the query parameters (e.g., {"area": "113", "page": "0"})
	QueryParams url.Values
}

// String generates a deterministic cache key string.
// Format: hh:endpoint:query1=val1:query2=val2
//
// Example:
//
//	hh:vacancies:area=113:page=0:per_page=100:text=сыктывкар
func (k CacheKey) String() string {
	parts := []string{"hh"}

	// Add endpoint (normalize path)
	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Add query params (sorted for determinism)
	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.QueryParams.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
