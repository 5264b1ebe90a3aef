package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pavel-txx/hh-collector/internal/ui"
	"github.com/pavel-txx/hh-collector/pkg/cache"
	"github.com/pavel-txx/hh-collector/pkg/collector"
	"github.com/pavel-txx/hh-collector/pkg/config"
	"github.com/pavel-txx/hh-collector/pkg/export"
	"github.com/pavel-txx/hh-collector/pkg/hh"
	"github.com/pavel-txx/hh-collector/pkg/logging"
	"github.com/pavel-txx/hh-collector/pkg/vacancy"
)

// flagOptions carries command-line overrides applied on top of the file and
// environment configuration. Zero values mean "not set" and leave the
// underlying configuration untouched.
type flagOptions struct {
	configPath  string
	out         string
	city        string
	text        string
	area        int
	delay       time.Duration
	maxRetries  int
	redisAddr   string
	noCache     bool
	logLevel    string
	logJSON     bool
	quiet       bool
	metricsAddr string
}

func parseFlags(args []string) (*flagOptions, error) {
	fs := flag.NewFlagSet("hh-collector", flag.ContinueOnError)
	opts := &flagOptions{}

	fs.StringVar(&opts.configPath, "config", "", "Path to the YAML config file")
	fs.StringVar(&opts.out, "out", "", "Output spreadsheet path")
	fs.StringVar(&opts.city, "city", "", "City keyword vacancies are filtered to")
	fs.StringVar(&opts.text, "text", "", "Free-text search query sent to hh.ru")
	fs.IntVar(&opts.area, "area", 0, "hh.ru area code the search is scoped to")
	fs.DurationVar(&opts.delay, "delay", -1, "Pause between page requests (e.g. 2s)")
	fs.IntVar(&opts.maxRetries, "max-retries", 0, "Attempt budget per page")
	fs.StringVar(&opts.redisAddr, "redis", "", "Redis address for the page cache")
	fs.BoolVar(&opts.noCache, "no-cache", false, "Disable the page cache")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	fs.BoolVar(&opts.logJSON, "log-json", false, "Emit JSON logs instead of console output")
	fs.BoolVar(&opts.quiet, "quiet", false, "Silence the banner, progress bar, and summary")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: hh-collector [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Collects hh.ru vacancies for a city into an Excel spreadsheet.\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// applyFlags overlays the set flags onto the resolved configuration.
func applyFlags(cfg *config.Config, opts *flagOptions) {
	if opts.out != "" {
		cfg.Output.Path = opts.out
	}
	if opts.city != "" {
		cfg.Filter.City = opts.city
	}
	if opts.text != "" {
		cfg.API.SearchText = opts.text
	}
	if opts.area > 0 {
		cfg.API.AreaID = opts.area
	}
	if opts.delay >= 0 {
		cfg.API.RequestDelay = config.Duration(opts.delay)
	}
	if opts.maxRetries > 0 {
		cfg.API.MaxRetries = opts.maxRetries
	}
	if opts.redisAddr != "" {
		cfg.Cache.RedisAddr = opts.redisAddr
	}
	if opts.noCache {
		cfg.Cache.RedisAddr = ""
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logJSON {
		cfg.Log.JSON = true
	}
}

// setupCache connects to Redis for the page cache. The cache is an
// optimization, so an unreachable Redis only logs a warning and the run
// proceeds without it.
func setupCache(ctx context.Context, cfg config.CacheConfig, logger zerolog.Logger) *cache.Manager {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, page cache disabled")
		client.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
	return cache.NewManager(client, time.Duration(cfg.TTL))
}

// startMetricsServer exposes Prometheus metrics for the duration of the run.
func startMetricsServer(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		logger.Info().Str("addr", addr).Msg("Serving metrics")
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Warn().Err(err).Msg("Metrics server stopped")
		}
	}()
}

func main() {
	// A collection run never signals failure through the exit code: partial
	// results and logged errors are still a completed run.
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Critical error")
		}
	}()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		return
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	applyFlags(&cfg, opts)

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Log.Level),
		Pretty: !cfg.Log.JSON,
		Output: os.Stderr,
	})
	logger := logging.NewLogger("main")

	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("Invalid configuration")
		return
	}

	ui.PrintBanner(opts.quiet)

	if opts.metricsAddr != "" {
		startMetricsServer(opts.metricsAddr, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startTime := time.Now()
	logger.Info().
		Str("city", cfg.Filter.City).
		Int("area", cfg.API.AreaID).
		Str("text", cfg.API.SearchText).
		Msg("Starting vacancy collection")

	hhClient, err := hh.New(hh.Config{
		BaseURL:    cfg.API.BaseURL,
		AreaID:     cfg.API.AreaID,
		Text:       cfg.API.SearchText,
		UserAgent:  cfg.API.UserAgent,
		Timeout:    time.Duration(cfg.API.Timeout),
		MaxRetries: cfg.API.MaxRetries,
		RetryDelay: time.Duration(cfg.API.RequestDelay),
		Cache:      setupCache(ctx, cfg.Cache, logger),
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create hh.ru client")
		return
	}

	extractor := vacancy.NewExtractor(cfg.Filter.City, vacancy.Placeholders{
		Title:    cfg.Placeholders.Title,
		Employer: cfg.Placeholders.Employer,
		Salary:   cfg.Placeholders.Salary,
		URL:      cfg.Placeholders.URL,
	}, logging.NewLogger("extractor"))

	var bar *pb.ProgressBar
	pageDone := func(done, total, collected int) {}
	if !opts.quiet {
		bar = pb.New(1)
		bar.Start()
		pageDone = func(done, total, collected int) {
			if total < done {
				total = done
			}
			bar.SetTotal(int64(total))
			bar.SetCurrent(int64(done))
		}
	}

	col, err := collector.New(collector.Config{
		Fetcher:   hhClient,
		Extractor: extractor,
		PageDelay: time.Duration(cfg.API.RequestDelay),
		PageDone:  pageDone,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create collector")
		return
	}

	records, stats := col.Run(ctx)
	if bar != nil {
		bar.Finish()
	}

	savedTo := ""
	if len(records) > 0 {
		writer, err := export.NewWriter(export.Config{
			Path:          cfg.Output.Path,
			SheetName:     cfg.Output.SheetName,
			Headers:       cfg.Output.Headers,
			LockWaitMax:   time.Duration(cfg.Output.LockWaitMax),
			LockPollEvery: time.Duration(cfg.Output.LockPollEvery),
		})
		if err != nil {
			logger.Error().Err(err).Msg("Failed to create spreadsheet writer")
		} else if err := writer.Save(records); err != nil {
			logger.Error().Err(err).Msg("Saving spreadsheet failed")
		} else {
			savedTo = cfg.Output.Path
		}
	} else {
		logger.Warn().Msg("No vacancies collected, nothing to save")
	}

	ui.PrintSummary(ui.Summary{
		Records:      len(records),
		PagesFetched: stats.PagesFetched,
		PagesSkipped: stats.PagesSkipped,
		ItemsSeen:    stats.ItemsSeen,
		Found:        stats.Found,
		Duration:     time.Since(startTime),
		OutputPath:   savedTo,
	}, opts.quiet)

	logger.Info().Dur("duration", time.Since(startTime)).Msg("Run finished")
}
