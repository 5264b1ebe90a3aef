// Package hh provides the HTTP client for the hh.ru vacancy search API
// with retries, rate-limit compliance, and optional response caching.
package hh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pavel-txx/hh-collector/pkg/cache"
)

// Prometheus metrics for hh.ru client operations.
var (
	hhRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hh_requests_total",
		Help: "Total hh.ru API requests by outcome",
	}, []string{"status"})

	hhRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hh_request_duration_seconds",
		Help:    "hh.ru request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	hhRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hh_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	hhRetryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hh_retry_backoff_seconds",
		Help:    "Backoff duration before retries by error class",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"error_class"})

	hhRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hh_retry_exhausted_total",
		Help: "Total number of pages given up after exhausting retries by error class",
	}, []string{"error_class"})

	hhRateLimitWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hh_rate_limit_waits_total",
		Help: "Total number of honored Retry-After waits",
	})
)

// ErrorClass represents a classification of page request failures.
// Unlike a general-purpose API client, every class is retryable here: the
// search endpoint is read-only and an attempt costs nothing but time.
type ErrorClass string

const (
	// ErrorClassNetwork represents transport errors and timeouts.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassHTTP represents non-2xx responses other than 429.
	ErrorClassHTTP ErrorClass = "http"

	// ErrorClassRateLimit represents 429 responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassDecode represents malformed JSON in a 2xx response.
	ErrorClassDecode ErrorClass = "decode"
)

// perPage is the fixed page size sent with every search request; 100 is the
// hh.ru maximum.
const perPage = 100

// Client fetches vacancy search pages.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root, e.g. https://api.hh.ru
	BaseURL string

	// AreaID is the hh.ru region code the search is scoped to
	AreaID int

	// Text is the free-text query sent with every page
	Text string

	// User-Agent header (REQUIRED by hh.ru)
	UserAgent string

	// Timeout bounds a single page request
	Timeout time.Duration

	// MaxRetries is the attempt budget per page
	MaxRetries int

	// RetryDelay is the linear backoff base and the Retry-After fallback
	RetryDelay time.Duration

	// Cache is the optional page response cache (nil disables caching)
	Cache *cache.Manager
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:    "https://api.hh.ru",
		AreaID:     113,
		Text:       "",
		UserAgent:  userAgent,
		Timeout:    10 * time.Second,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
	}
}

// New creates a new hh.ru search client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required (hh.ru rejects anonymous clients)")
	}

	if cfg.MaxRetries < 1 {
		return nil, fmt.Errorf("max_retries must be >= 1 (got %d)", cfg.MaxRetries)
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive (got %s)", cfg.Timeout)
	}

	logger := log.With().Str("component", "hh-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:  cfg.Cache,
		config: cfg,
		logger: logger,
		sleep:  sleepContext,
	}, nil
}

// FetchPage retrieves one page of search results. It consults the cache
// first, then runs the retried fetch; successful responses are cached for
// the manager's TTL. The returned error, when non-nil, wraps
// ErrRetriesExhausted or ErrContextCancelled and means the page is lost for
// this run.
func (c *Client) FetchPage(ctx context.Context, page int) (*SearchPage, error) {
	params := c.queryParams(page)

	startTime := time.Now()
	defer func() {
		hhRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	key := cache.CacheKey{
		Endpoint:    "/vacancies",
		QueryParams: params,
	}

	if c.cache != nil {
		entry, err := c.cache.Get(ctx, key)
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Int("page", page).Msg("Cache get error")
		}
		if entry != nil {
			var sp SearchPage
			decodeErr := json.Unmarshal(entry.Data, &sp)
			if decodeErr == nil {
				c.logger.Debug().
					Int("page", page).
					Time("cached_at", entry.CachedAt).
					Msg("Page served from cache")
				return &sp, nil
			}
			// Undecodable entry: fall through to a fresh fetch
			c.logger.Warn().Err(decodeErr).Int("page", page).Msg("Dropping corrupt cache entry")
		}
	}

	sp, body, err := c.fetchWithRetry(ctx, page)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, cache.NewEntry(body, http.StatusOK)); err != nil {
			c.logger.Warn().Err(err).Int("page", page).Msg("Failed to cache page")
		}
	}

	c.logger.Info().
		Int("page", page).
		Int("items", len(sp.Items)).
		Int("total_pages", sp.Pages).
		Msg("Page fetched")

	return sp, nil
}

// fetchOnce executes a single GET attempt for the page.
func (c *Client) fetchOnce(ctx context.Context, page int) (*SearchPage, []byte, error) {
	u := c.config.BaseURL + "/vacancies?" + c.queryParams(page).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, &APIError{Class: ErrorClassNetwork, Message: "create request", Err: err}
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		hhRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, nil, &APIError{Class: ErrorClassNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		hhRequestsTotal.WithLabelValues("429").Inc()
		return nil, nil, &APIError{
			StatusCode: resp.StatusCode,
			Class:      ErrorClassRateLimit,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.config.RetryDelay),
			Message:    resp.Status,
		}
	}

	if resp.StatusCode >= 400 {
		hhRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
		return nil, nil, &APIError{
			StatusCode: resp.StatusCode,
			Class:      ErrorClassHTTP,
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		hhRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, nil, &APIError{
			StatusCode: resp.StatusCode,
			Class:      ErrorClassNetwork,
			Message:    "read body",
			Err:        err,
		}
	}

	var sp SearchPage
	if err := json.Unmarshal(body, &sp); err != nil {
		hhRequestsTotal.WithLabelValues("decode_error").Inc()
		return nil, nil, &APIError{
			StatusCode: resp.StatusCode,
			Class:      ErrorClassDecode,
			Message:    "decode response",
			Err:        err,
		}
	}

	hhRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	return &sp, body, nil
}

// queryParams builds the search query for a page.
func (c *Client) queryParams(page int) url.Values {
	params := url.Values{}
	params.Set("area", strconv.Itoa(c.config.AreaID))
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("text", c.config.Text)
	return params
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// SetSleep replaces the wait function used for backoff and Retry-After
// pauses (for testing).
func (c *Client) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	c.sleep = fn
}
