// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	// Set global log level
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	// Configure output
	var output io.Writer = cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: cfg.Output}
	}

	// Create logger with timestamp
	logger := zerolog.New(output).With().Timestamp().Logger()

	// Set as global logger
	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Cache operations (hit/miss, key, TTL)
//   - Per-item extraction decisions (city filter, placeholders applied)
//   - Request parameters per page
//
// Info: Normal operation events
//   - Page fetched successfully (page, items, total pages)
//   - Collection started/finished (records, duration)
//   - Spreadsheet written (path, rows)
//
// Warn: Warning conditions that don't prevent operation
//   - Retry attempts (attempt number, backoff)
//   - Rate limit waits (Retry-After honored)
//   - Skipped items (malformed payload)
//   - Cache errors (fallback to direct request)
//
// Error: Error conditions requiring attention
//   - Page skipped after retry exhaustion
//   - Spreadsheet save failures (locked file, serialization)
//   - Recovered panics at the run boundary
//
// Context Fields:
//   - page: zero-based page index
//   - total_pages: current total-page bound
//   - status_code: HTTP status code
//   - attempt: retry attempt number
//   - error_class: error classification (network, http, rate_limit, decode)
//   - retry_after: honored Retry-After wait
//   - items: items seen on a page
//   - matched: items that passed the city filter
//   - path: output spreadsheet path
