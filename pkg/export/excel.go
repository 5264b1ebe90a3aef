// Package export writes collected vacancies to an Excel spreadsheet.
//
// The writer replaces the file wholesale on every run. When the target file
// already exists and is held open by another program it polls for release
// up to a configured bound before giving up.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/pavel-txx/hh-collector/pkg/vacancy"
)

// ErrFileBusy is returned when the spreadsheet stays locked for the whole
// wait budget.
var ErrFileBusy = errors.New("spreadsheet busy")

// Config holds the writer configuration.
type Config struct {
	// Path is the target .xlsx file
	Path string

	// SheetName is the worksheet the rows land on
	SheetName string

	// Headers is the first row of the sheet
	Headers []string

	// LockWaitMax bounds how long Save waits for a locked file
	LockWaitMax time.Duration

	// LockPollEvery is the interval between writability probes
	LockPollEvery time.Duration
}

// Writer persists vacancy records as spreadsheet rows.
type Writer struct {
	config Config
	logger zerolog.Logger
	locked func(path string) bool
	sleep  func(d time.Duration)
}

// NewWriter creates a spreadsheet writer.
func NewWriter(cfg Config) (*Writer, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("output path is required")
	}
	if cfg.SheetName == "" {
		return nil, fmt.Errorf("sheet name is required")
	}
	if len(cfg.Headers) == 0 {
		return nil, fmt.Errorf("headers are required")
	}
	if cfg.LockWaitMax <= 0 {
		return nil, fmt.Errorf("lock_wait_max must be positive (got %s)", cfg.LockWaitMax)
	}
	if cfg.LockPollEvery <= 0 {
		return nil, fmt.Errorf("lock_poll_every must be positive (got %s)", cfg.LockPollEvery)
	}

	logger := log.With().Str("component", "export").Logger()

	return &Writer{
		config: cfg,
		logger: logger,
		locked: isFileLocked,
		sleep:  time.Sleep,
	}, nil
}

// Save writes all records in one pass: the header row first, then one row
// per record. Failures are logged and returned; callers decide whether they
// are fatal.
func (w *Writer) Save(records []vacancy.Vacancy) error {
	if err := w.ensureDir(); err != nil {
		return err
	}

	if fileExists(w.config.Path) && !w.waitForFile() {
		w.logger.Error().
			Str("path", w.config.Path).
			Dur("waited", w.config.LockWaitMax).
			Msg("Spreadsheet unavailable for writing, giving up")
		return fmt.Errorf("%w: %s", ErrFileBusy, w.config.Path)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			w.logger.Warn().Err(err).Msg("Failed to close spreadsheet")
		}
	}()

	sheet := w.config.SheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		w.logger.Error().Err(err).Msg("Failed to prepare worksheet")
		return fmt.Errorf("prepare worksheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &w.config.Headers); err != nil {
		w.logger.Error().Err(err).Msg("Failed to write header row")
		return fmt.Errorf("write header row: %w", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		row := record.Row()
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			w.logger.Error().Err(err).Int("row", i+2).Msg("Failed to write row")
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(w.config.Path); err != nil {
		w.logger.Error().Err(err).Str("path", w.config.Path).Msg("Failed to save spreadsheet")
		return fmt.Errorf("save spreadsheet: %w", err)
	}

	w.logger.Info().
		Str("path", w.config.Path).
		Int("rows", len(records)).
		Msg("Spreadsheet written")
	return nil
}

// ensureDir creates the directory for the output file if it is missing.
func (w *Writer) ensureDir() error {
	dir := filepath.Dir(w.config.Path)
	if dir == "" || dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		w.logger.Error().Err(err).Str("path", dir).Msg("Failed to create output directory")
		return fmt.Errorf("create output directory: %w", err)
	}
	w.logger.Info().Str("path", dir).Msg("Output directory created")
	return nil
}

// SetLockProbe replaces the writability check (for testing).
func (w *Writer) SetLockProbe(fn func(path string) bool) {
	w.locked = fn
}

// SetSleep replaces the wait function used between probes (for testing).
func (w *Writer) SetSleep(fn func(d time.Duration)) {
	w.sleep = fn
}
