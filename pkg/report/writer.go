package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Writer emits the pipeline's two output files: the enriched data file
// and the human-readable report. All writes are atomic (temp file then
// rename) so an interrupted run never leaves a partially written file.
type Writer struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewWriter creates a new Writer instance
func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the clock used for the report's generation
// timestamp. Pinning the clock makes report output reproducible.
func (w *Writer) WithClock(now func() time.Time) *Writer {
	if now != nil {
		w.now = now
	}
	return w
}

// writeAtomic writes via fn into a temp file in the target directory,
// then renames it over path. The rename is the commit point.
func (w *Writer) writeAtomic(path string, fn func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := fn(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit output file %s: %w", path, err)
	}

	w.logger.Info("Wrote output file", zap.String("path", path))
	return nil
}

// formatTimestamp renders a timestamp the way it appeared on input:
// date-only values stay date-only, anything with a clock uses RFC3339.
func formatTimestamp(ts time.Time) string {
	if ts.Hour() == 0 && ts.Minute() == 0 && ts.Second() == 0 && ts.Location() == time.UTC {
		return ts.Format("2006-01-02")
	}
	return ts.Format(time.RFC3339)
}
