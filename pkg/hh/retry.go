package hh

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// fetchWithRetry runs the attempt loop for one page.
//
// Rate-limit responses (429) honor the server's Retry-After wait and retry
// the same attempt; they never consume the attempt budget. Every other
// failure consumes an attempt and backs off linearly (base delay * attempt
// number) before the next one. After MaxRetries failed attempts the page is
// given up with ErrRetriesExhausted.
func (c *Client) fetchWithRetry(ctx context.Context, page int) (*SearchPage, []byte, error) {
	var lastErr error

	attempt := 1
	for attempt <= c.config.MaxRetries {
		sp, body, err := c.fetchOnce(ctx, page)
		if err == nil {
			if attempt > 1 {
				c.logger.Info().
					Int("page", page).
					Int("attempt", attempt).
					Msg("Page fetched after retry")
			}
			return sp, body, nil
		}
		lastErr = err

		if apiErr, ok := isRateLimited(err); ok {
			hhRateLimitWaitsTotal.Inc()
			c.logger.Warn().
				Int("page", page).
				Int("attempt", attempt).
				Dur("retry_after", apiErr.RetryAfter).
				Msg("Rate limited, honoring Retry-After")

			if err := c.sleep(ctx, apiErr.RetryAfter); err != nil {
				return nil, nil, err
			}
			continue
		}

		class := classOf(err)
		c.logger.Warn().
			Int("page", page).
			Int("attempt", attempt).
			Str("error_class", string(class)).
			Err(err).
			Msg("Page request failed")

		if attempt == c.config.MaxRetries {
			break
		}

		backoff := time.Duration(attempt) * c.config.RetryDelay
		hhRetriesTotal.WithLabelValues(string(class)).Inc()
		hhRetryBackoffSeconds.WithLabelValues(string(class)).Observe(backoff.Seconds())

		if err := c.sleep(ctx, backoff); err != nil {
			return nil, nil, err
		}
		attempt++
	}

	class := classOf(lastErr)
	hhRetryExhaustedTotal.WithLabelValues(string(class)).Inc()
	c.logger.Error().
		Int("page", page).
		Int("max_retries", c.config.MaxRetries).
		Str("error_class", string(class)).
		Msg("Retry attempts exhausted, skipping page")

	return nil, nil, fmt.Errorf("page %d: %w after %d attempts: %v",
		page, ErrRetriesExhausted, c.config.MaxRetries, lastErr)
}

// parseRetryAfter reads a Retry-After header value in seconds. Missing or
// unparsable values fall back to the given default.
func parseRetryAfter(header string, fallback time.Duration) time.Duration {
	if header == "" {
		return fallback
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

// classOf extracts the ErrorClass from an attempt error.
func classOf(err error) ErrorClass {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Class
	}
	return ErrorClassNetwork
}

// sleepContext waits for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
	case <-time.After(d):
		return nil
	}
}
