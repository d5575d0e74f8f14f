// Package logging configures the application loggers: a structured JSON
// logger for machine consumption, a text logger for the terminal, and an
// optional rotating file logger for pipeline runs.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	humanReadableLogger *slog.Logger
	level               = new(slog.LevelVar)
)

// Init initializes the logging system. JSON output goes to stdout and
// becomes the process default, human-readable text output to stderr.
func Init() {
	level.Set(slog.LevelInfo)

	humanReadableLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))
}

// SetLevel sets the minimum logging level for both loggers.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// HumanReadable returns the human-readable (text) logger.
// Returns nil if Init() has not been called.
func HumanReadable() *slog.Logger {
	return humanReadableLogger
}

// ForService creates a child logger with the 'service' attribute added.
// It follows the process default logger, so redirecting the default (e.g.
// to the rotating file log) also redirects service loggers.
func ForService(serviceName string) *slog.Logger {
	return slog.Default().With("service", serviceName)
}

// FileLogger returns a JSON logger writing to path with lumberjack rotation.
// The caller owns the returned closer.
func FileLogger(path string, maxSizeMB, maxBackups, maxAgeDays int) (*slog.Logger, io.Closer) {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	logger := slog.New(slog.NewJSONHandler(rotator, &slog.HandlerOptions{
		Level: level,
	}))
	return logger, rotator
}
