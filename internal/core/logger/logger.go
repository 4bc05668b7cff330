package logger

import (
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

// Init initializes the global structured logger. Logs go to stderr so that
// command output on stdout stays machine-readable.
func Init(level slog.Level, format string) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// Get returns the default logger
func Get() *slog.Logger {
	if defaultLogger == nil {
		Init(slog.LevelInfo, "text")
	}
	return defaultLogger
}

// Info logs at Info level
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Error logs at Error level
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// Warn logs at Warn level
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Debug logs at Debug level
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}
