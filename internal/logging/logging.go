// Package logging provides the shared slog setup: a human-readable default
// logger on stderr plus rotating per-service file loggers.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	defaultLogger *slog.Logger
	defaultLevel  = new(slog.LevelVar)
	initOnce      sync.Once
)

// Init initializes the process-wide default logger. Safe to call multiple
// times; only the first call takes effect.
func Init(debug bool) {
	initOnce.Do(func() {
		if debug {
			defaultLevel.Set(slog.LevelDebug)
		} else {
			defaultLevel.Set(slog.LevelInfo)
		}
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: defaultLevel})
		defaultLogger = slog.New(handler)
		slog.SetDefault(defaultLogger)
	})
}

// Default returns the process-wide logger, initializing it lazily so that
// packages with init-time loggers never receive nil.
func Default() *slog.Logger {
	Init(false)
	return defaultLogger
}

// SetLevel adjusts the minimum level of the default logger at runtime.
func SetLevel(level slog.Level) {
	defaultLevel.Set(level)
}

// NewFileLogger returns a service-scoped JSON logger writing to logFilePath
// with size-based rotation, along with a closer for graceful shutdown.
// The log directory is created if it does not exist.
func NewFileLogger(logFilePath, service string, level slog.Leveler) (*slog.Logger, func() error, error) {
	dir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory %s: %w", dir, err)
	}

	writer := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With("service", service)
	return logger, writer.Close, nil
}

// Convenience wrappers around the default logger.

func Debug(msg string, args ...any) { Default().Debug(msg, args...) }
func Info(msg string, args ...any)  { Default().Info(msg, args...) }
func Warn(msg string, args ...any)  { Default().Warn(msg, args...) }
func Error(msg string, args ...any) { Default().Error(msg, args...) }
