// Package logging provides the global structured logger for the reconciler:
// text output on the console, optional weekly JSON log files.
package logging

import (
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

// Init installs the global logger. When logDir is empty, logs go to the
// console only.
func Init(logDir string, level slog.Level, retentionWeeks int) {
	defaultLogger = setupLogger(logDir, level, retentionWeeks)
	slog.SetDefault(defaultLogger)
}

func logger() *slog.Logger {
	if defaultLogger != nil {
		return defaultLogger
	}
	// Fallback console logger when Init was never called (tests, library use)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	logger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	logger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	logger().Error(msg, args...)
}

func Debug(msg string, args ...any) {
	logger().Debug(msg, args...)
}
