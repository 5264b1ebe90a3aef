// Package config holds the run configuration for the collector.
//
// Values are resolved in three layers: compiled-in defaults, an optional
// YAML file, and environment variables. Later layers win. CLI flags are
// applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML files can use values like "2s" or "10m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Config holds all configuration for one collection run.
type Config struct {
	API          APIConfig         `yaml:"api"`
	Filter       FilterConfig      `yaml:"filter"`
	Placeholders PlaceholderConfig `yaml:"placeholders"`
	Cache        CacheConfig       `yaml:"cache"`
	Output       OutputConfig      `yaml:"output"`
	Log          LogConfig         `yaml:"log"`
}

// APIConfig controls the hh.ru search requests.
type APIConfig struct {
	// BaseURL is the API root, e.g. https://api.hh.ru
	BaseURL string `yaml:"base_url"`
	// AreaID is the hh.ru region code the search is scoped to
	AreaID int `yaml:"area_id"`
	// SearchText is the free-text query sent with every page request
	SearchText string `yaml:"search_text"`
	// UserAgent is required by the hh.ru API
	UserAgent string `yaml:"user_agent"`
	// Timeout bounds a single page request
	Timeout Duration `yaml:"timeout"`
	// MaxRetries is the attempt budget per page
	MaxRetries int `yaml:"max_retries"`
	// RequestDelay is the politeness pause between pages; it is also the
	// linear backoff base and the Retry-After fallback
	RequestDelay Duration `yaml:"request_delay"`
}

// FilterConfig controls which items are kept.
type FilterConfig struct {
	// City is matched as a case-insensitive substring of the item's area name
	City string `yaml:"city"`
}

// PlaceholderConfig supplies the output values for absent item fields.
type PlaceholderConfig struct {
	Title    string `yaml:"title"`
	Employer string `yaml:"employer"`
	Salary   string `yaml:"salary"`
	URL      string `yaml:"url"`
}

// CacheConfig controls the optional Redis page cache. An empty RedisAddr
// disables caching entirely.
type CacheConfig struct {
	RedisAddr     string   `yaml:"redis_addr"`
	RedisPassword string   `yaml:"redis_password"`
	RedisDB       int      `yaml:"redis_db"`
	TTL           Duration `yaml:"ttl"`
}

// OutputConfig controls the spreadsheet sink.
type OutputConfig struct {
	Path      string `yaml:"path"`
	SheetName string `yaml:"sheet_name"`
	// Headers are the five column headers: title, employer, salary, city, url
	Headers []string `yaml:"headers"`
	// LockWaitMax bounds how long Save waits for a locked file
	LockWaitMax Duration `yaml:"lock_wait_max"`
	// LockPollEvery is the interval between writability probes
	LockPollEvery Duration `yaml:"lock_poll_every"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the built-in configuration. API-facing defaults (search
// text, city keyword) are Russian because hh.ru reports area names in Russian.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:      "https://api.hh.ru",
			AreaID:       113,
			SearchText:   "сыктывкар",
			UserAgent:    "hh-collector/1.0",
			Timeout:      Duration(10 * time.Second),
			MaxRetries:   3,
			RequestDelay: Duration(2 * time.Second),
		},
		Filter: FilterConfig{
			City: "сыктывкар",
		},
		Placeholders: PlaceholderConfig{
			Title:    "no title",
			Employer: "not specified",
			Salary:   "not specified",
			URL:      "no link",
		},
		Cache: CacheConfig{
			RedisAddr: "",
			RedisDB:   0,
			TTL:       Duration(10 * time.Minute),
		},
		Output: OutputConfig{
			Path:          "vacancies.xlsx",
			SheetName:     "Vacancies",
			Headers:       []string{"Title", "Employer", "Salary", "City", "URL"},
			LockWaitMax:   Duration(30 * time.Second),
			LockPollEvery: Duration(2 * time.Second),
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// Load resolves the configuration: defaults, then the YAML file (the given
// path, or config.yaml in the working directory when path is empty), then
// environment variables. A missing implicit file is not an error; a missing
// explicit one is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Unmarshal over the defaults so absent keys keep their values
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case explicit:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overlays HH_* environment variables.
func applyEnv(cfg *Config) {
	cfg.API.BaseURL = getEnv("HH_BASE_URL", cfg.API.BaseURL)
	cfg.API.AreaID = getEnvInt("HH_AREA_ID", cfg.API.AreaID)
	cfg.API.SearchText = getEnv("HH_SEARCH_TEXT", cfg.API.SearchText)
	cfg.API.UserAgent = getEnv("HH_USER_AGENT", cfg.API.UserAgent)
	cfg.API.Timeout = getEnvDuration("HH_TIMEOUT", cfg.API.Timeout)
	cfg.API.MaxRetries = getEnvInt("HH_MAX_RETRIES", cfg.API.MaxRetries)
	cfg.API.RequestDelay = getEnvDuration("HH_REQUEST_DELAY", cfg.API.RequestDelay)

	cfg.Filter.City = getEnv("HH_CITY", cfg.Filter.City)

	cfg.Cache.RedisAddr = getEnv("HH_REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.RedisPassword = getEnv("HH_REDIS_PASSWORD", cfg.Cache.RedisPassword)
	cfg.Cache.RedisDB = getEnvInt("HH_REDIS_DB", cfg.Cache.RedisDB)
	cfg.Cache.TTL = getEnvDuration("HH_CACHE_TTL", cfg.Cache.TTL)

	cfg.Output.Path = getEnv("HH_OUTPUT_PATH", cfg.Output.Path)

	cfg.Log.Level = getEnv("HH_LOG_LEVEL", cfg.Log.Level)
}

// Validate reports the first configuration error, or nil.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.AreaID <= 0 {
		return fmt.Errorf("api.area_id must be positive, got %d", c.API.AreaID)
	}
	if c.API.UserAgent == "" {
		return fmt.Errorf("api.user_agent is required (hh.ru rejects anonymous clients)")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.API.MaxRetries < 1 {
		return fmt.Errorf("api.max_retries must be at least 1, got %d", c.API.MaxRetries)
	}
	if c.API.RequestDelay < 0 {
		return fmt.Errorf("api.request_delay must not be negative, got %s", c.API.RequestDelay)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}
	if len(c.Output.Headers) != 5 {
		return fmt.Errorf("output.headers must list exactly 5 columns, got %d", len(c.Output.Headers))
	}
	if c.Output.LockPollEvery <= 0 {
		return fmt.Errorf("output.lock_poll_every must be positive, got %s", c.Output.LockPollEvery)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal Duration) Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return Duration(d)
		}
	}
	return defaultVal
}
