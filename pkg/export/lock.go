package export

import (
	"os"
	"time"
)

// fileExists reports whether path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// isFileLocked reports whether path cannot be opened for writing. A missing
// file is never locked. Excel holds an exclusive handle on open workbooks,
// so a failed open-for-append means another program has the file.
func isFileLocked(path string) bool {
	if !fileExists(path) {
		return false
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return true
	}
	f.Close()
	return false
}

// waitForFile polls until the spreadsheet becomes writable or the wait
// budget runs out.
func (w *Writer) waitForFile() bool {
	for waited := time.Duration(0); waited < w.config.LockWaitMax; waited += w.config.LockPollEvery {
		if !w.locked(w.config.Path) {
			return true
		}
		w.logger.Warn().
			Str("path", w.config.Path).
			Msg("Spreadsheet busy, waiting for release")
		w.sleep(w.config.LockPollEvery)
	}
	return false
}
