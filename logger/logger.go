// Package logger provides structured logging for the BackdropKit server.
//
// This package wraps Go's standard log/slog with convenience functions for:
//   - Session lifecycle logging (connect, disconnect, message errors)
//   - Frame pipeline logging (decode, segment, composite timings)
//   - Contextual logging with per-connection tracing
//   - Level-based verbosity control
//
// All exported functions use the global DefaultLogger which can be configured
// for different output formats and log levels.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"
)

var (
	// DefaultLogger is the global structured logger instance.
	// It is safe for concurrent use and initialized with slog.LevelInfo by default.
	DefaultLogger *slog.Logger
)

func init() {
	// Check LOG_LEVEL environment variable
	level := slog.LevelInfo
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		switch strings.ToLower(envLevel) {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn", "warning":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	DefaultLogger = newLogger(level)
}

func newLogger(level slog.Level) *slog.Logger {
	inner := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(NewContextHandler(inner))
}

// SetLevel changes the logging level for all subsequent log operations.
// This is safe for concurrent use as it replaces the entire logger instance.
func SetLevel(level slog.Level) {
	DefaultLogger = newLogger(level)
}

// SetVerbose enables debug-level logging when verbose is true, otherwise sets info-level.
// This is a convenience wrapper around SetLevel for command-line verbose flags.
func SetVerbose(verbose bool) {
	if verbose {
		SetLevel(slog.LevelDebug)
	} else {
		SetLevel(slog.LevelInfo)
	}
}

// Info logs an informational message with structured key-value attributes.
// Args should be provided in key-value pairs: key1, value1, key2, value2, ...
func Info(msg string, args ...any) {
	DefaultLogger.Info(msg, args...)
}

// InfoContext logs an informational message with context and structured attributes.
func InfoContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.InfoContext(ctx, msg, args...)
}

// Debug logs a debug-level message with structured attributes.
// Debug messages are only output when the log level is set to LevelDebug or lower.
func Debug(msg string, args ...any) {
	DefaultLogger.Debug(msg, args...)
}

// DebugContext logs a debug message with context and structured attributes.
func DebugContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.DebugContext(ctx, msg, args...)
}

// Warn logs a warning message with structured attributes.
// Use for recoverable errors or unexpected but non-critical situations.
func Warn(msg string, args ...any) {
	DefaultLogger.Warn(msg, args...)
}

// WarnContext logs a warning message with context and structured attributes.
func WarnContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.WarnContext(ctx, msg, args...)
}

// Error logs an error message with structured attributes.
// Use for errors that affect operation but don't cause complete failure.
func Error(msg string, args ...any) {
	DefaultLogger.Error(msg, args...)
}

// ErrorContext logs an error message with context and structured attributes.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.ErrorContext(ctx, msg, args...)
}

// SessionConnected logs a new streaming connection with the current count.
func SessionConnected(sessionID string, total int, attrs ...any) {
	allAttrs := make([]any, 0, 4+len(attrs))
	allAttrs = append(allAttrs,
		"session_id", sessionID,
		"connections", total,
	)
	allAttrs = append(allAttrs, attrs...)
	Info("session connected", allAttrs...)
}

// SessionClosed logs a disconnect with the remaining connection count.
func SessionClosed(sessionID string, total int, attrs ...any) {
	allAttrs := make([]any, 0, 4+len(attrs))
	allAttrs = append(allAttrs,
		"session_id", sessionID,
		"connections", total,
	)
	allAttrs = append(allAttrs, attrs...)
	Info("session closed", allAttrs...)
}

// FrameProcessed logs one frame pipeline pass at debug level.
// This function is a no-op when debug logging is disabled for performance.
func FrameProcessed(sessionID, backgroundID string, duration time.Duration, attrs ...any) {
	if !DefaultLogger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	allAttrs := make([]any, 0, 6+len(attrs))
	allAttrs = append(allAttrs,
		"session_id", sessionID,
		"background", backgroundID,
		"duration_ms", duration.Milliseconds(),
	)
	allAttrs = append(allAttrs, attrs...)
	Debug("frame processed", allAttrs...)
}

// MessageError logs a recoverable per-message failure. The session stays open;
// the error is rendered into an error response instead.
func MessageError(sessionID string, err error, attrs ...any) {
	allAttrs := make([]any, 0, 4+len(attrs))
	allAttrs = append(allAttrs,
		"session_id", sessionID,
		"error", err,
	)
	allAttrs = append(allAttrs, attrs...)
	Warn("message handling failed", allAttrs...)
}

// BackgroundSelected logs a background change with its outcome.
func BackgroundSelected(sessionID, backgroundID string, success bool, attrs ...any) {
	allAttrs := make([]any, 0, 6+len(attrs))
	allAttrs = append(allAttrs,
		"session_id", sessionID,
		"background", backgroundID,
		"success", success,
	)
	allAttrs = append(allAttrs, attrs...)
	Info("background selected", allAttrs...)
}

// UploadResult logs the outcome of a background upload.
func UploadResult(backgroundID string, size int, err error, attrs ...any) {
	allAttrs := make([]any, 0, 6+len(attrs))
	allAttrs = append(allAttrs, "size_bytes", size)
	if backgroundID != "" {
		allAttrs = append(allAttrs, "background_id", backgroundID)
	}
	allAttrs = append(allAttrs, attrs...)

	if err != nil {
		allAttrs = append(allAttrs, "error", err)
		Warn("background upload rejected", allAttrs...)
		return
	}
	Info("background uploaded", allAttrs...)
}
