// Package collector implements the sequential page loop that drives one
// collection run.
package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pavel-txx/hh-collector/pkg/hh"
	"github.com/pavel-txx/hh-collector/pkg/vacancy"
)

// Prometheus metrics for collection runs.
var (
	pagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hh_pages_total",
		Help: "Pages processed by result",
	}, []string{"result"}) // "ok", "skipped"

	itemsSeenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hh_items_seen_total",
		Help: "Raw items seen across all fetched pages",
	})

	vacanciesCollectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hh_vacancies_collected_total",
		Help: "Items that passed extraction and the city filter",
	})
)

// PageFetcher retrieves one page of search results.
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) (*hh.SearchPage, error)
}

// Config holds the collector configuration.
type Config struct {
	// Fetcher retrieves pages
	Fetcher PageFetcher

	// Extractor turns raw items into records
	Extractor *vacancy.Extractor

	// PageDelay is the politeness pause after every page, fetched or skipped
	PageDelay time.Duration

	// PageDone, when set, is called after each processed page with the number
	// of pages done, the current total-page bound, and records collected so far
	PageDone func(done, total, collected int)
}

// Stats summarizes one collection run.
type Stats struct {
	// PagesFetched counts pages that produced a decoded response
	PagesFetched int
	// PagesSkipped counts pages lost after retry exhaustion
	PagesSkipped int
	// ItemsSeen counts raw items across fetched pages
	ItemsSeen int
	// Matched counts items that became records
	Matched int
	// Found is the result-set size reported by the last fetched page
	Found int
	// Duration is the wall time of the run
	Duration time.Duration
}

// Collector walks the search pages in order and accumulates records.
type Collector struct {
	config Config
	logger zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a collector.
func New(cfg Config) (*Collector, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if cfg.PageDelay < 0 {
		return nil, fmt.Errorf("page delay must not be negative (got %s)", cfg.PageDelay)
	}

	logger := log.With().Str("component", "collector").Logger()

	return &Collector{
		config: cfg,
		logger: logger,
		sleep:  sleepContext,
	}, nil
}

// Run executes the collection loop and never fails: pages that cannot be
// fetched are skipped permanently, cancellation ends the run early, and the
// records gathered so far are always returned.
//
// The total-page bound starts at one and is re-read from every successful
// response, because the server recomputes it while the result set changes
// under the walk.
func (c *Collector) Run(ctx context.Context) ([]vacancy.Vacancy, Stats) {
	startTime := time.Now()

	var stats Stats
	var records []vacancy.Vacancy

	totalPages := 1
	for page := 0; page < totalPages; page++ {
		sp, err := c.config.Fetcher.FetchPage(ctx, page)
		switch {
		case err != nil && (errors.Is(err, hh.ErrContextCancelled) || ctx.Err() != nil):
			c.logger.Warn().Int("page", page).Msg("Run cancelled")
			stats.Duration = time.Since(startTime)
			return records, stats

		case err != nil:
			stats.PagesSkipped++
			pagesTotal.WithLabelValues("skipped").Inc()
			c.logger.Error().Err(err).Int("page", page).Msg("Page skipped")

		default:
			totalPages = sp.Pages
			stats.Found = sp.Found

			for _, raw := range sp.Items {
				stats.ItemsSeen++
				itemsSeenTotal.Inc()

				v, ok := c.config.Extractor.Extract(raw)
				if !ok {
					continue
				}
				records = append(records, v)
				stats.Matched++
				vacanciesCollectedTotal.Inc()
			}

			stats.PagesFetched++
			pagesTotal.WithLabelValues("ok").Inc()
			c.logger.Info().
				Int("page", page).
				Int("total_pages", totalPages).
				Int("collected", len(records)).
				Msg("Page processed")
		}

		if c.config.PageDone != nil {
			c.config.PageDone(page+1, totalPages, len(records))
		}

		// Politeness pause after every page, including skipped ones
		if err := c.sleep(ctx, c.config.PageDelay); err != nil {
			c.logger.Warn().Int("page", page).Msg("Run cancelled during page delay")
			break
		}
	}

	stats.Duration = time.Since(startTime)
	c.logger.Info().
		Int("pages_fetched", stats.PagesFetched).
		Int("pages_skipped", stats.PagesSkipped).
		Int("items_seen", stats.ItemsSeen).
		Int("matched", stats.Matched).
		Dur("duration", stats.Duration).
		Msg("Collection finished")

	return records, stats
}

// SetSleep replaces the wait function used for the page delay (for testing).
func (c *Collector) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	c.sleep = fn
}

// sleepContext waits for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
