package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RotatingWriter appends to one log file per ISO week. Rotation happens
// inline on write; files older than the retention period are removed at
// rotation time, so a short-lived process still cleans up after itself.
type RotatingWriter struct {
	logDir      string
	retention   time.Duration
	mu          sync.Mutex
	currentFile *os.File
	currentWeek string
}

// NewRotatingWriter creates a rotating writer keeping retentionWeeks of logs.
func NewRotatingWriter(logDir string, retentionWeeks int) *RotatingWriter {
	return &RotatingWriter{
		logDir:    logDir,
		retention: time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
	}
}

// weekKey returns the ISO week key in YYYY-Www format
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	week := weekKey(time.Now())
	if w.currentFile == nil || w.currentWeek != week {
		if err := w.rotate(week); err != nil {
			return 0, err
		}
	}

	return w.currentFile.Write(p)
}

// rotate opens the log file for the given week (caller holds the lock)
func (w *RotatingWriter) rotate(week string) error {
	if w.currentFile != nil {
		if err := w.currentFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file during rotation: %v\n", err)
		}
	}

	logPath := filepath.Join(w.logDir, fmt.Sprintf("reconciler-%s.log", week))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	w.currentFile = file
	w.currentWeek = week
	w.cleanupOldLogs()
	return nil
}

// cleanupOldLogs removes log files older than the retention period
func (w *RotatingWriter) cleanupOldLogs() {
	entries, err := os.ReadDir(w.logDir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-w.retention)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "reconciler-") || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(w.logDir, entry.Name()))
		}
	}
}

// Close closes the current log file.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.currentFile != nil {
		err := w.currentFile.Close()
		w.currentFile = nil
		return err
	}
	return nil
}

// DefaultRetentionWeeks is applied when no retention is configured.
const DefaultRetentionWeeks = 4

// setupLogger configures slog to log to the console and, when logDir is set,
// to a weekly rotating JSON file.
func setupLogger(logDir string, level slog.Level, retentionWeeks int) *slog.Logger {
	if retentionWeeks <= 0 {
		retentionWeeks = DefaultRetentionWeeks
	}
	consoleHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	if logDir == "" {
		return slog.New(consoleHandler)
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		console := slog.New(consoleHandler)
		console.Error("Failed to create logs directory, logging to console only", "error", err)
		return console
	}

	// Console gets text format, file gets JSON format for easier parsing
	fileHandler := slog.NewJSONHandler(NewRotatingWriter(logDir, retentionWeeks), &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}})
}
