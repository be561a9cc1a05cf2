package kmbench

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with harness-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithMode adds the execution mode to the logger.
func (l *Logger) WithMode(mode string) *Logger {
	return &Logger{
		Logger: l.Logger.With("mode", mode),
	}
}

// WithPath adds a file or blob path to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogDataset logs a dataset generation.
func (l *Logger) LogDataset(ctx context.Context, path string, points, features int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset generation failed",
			"path", path,
			"points", points,
			"features", features,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dataset written",
			"path", path,
			"points", points,
			"features", features,
		)
	}
}

// LogDecode logs a point-file decode. Dropped non-finite rows are reported
// at warn level.
func (l *Logger) LogDecode(ctx context.Context, path string, rows, dropped int, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "decode failed",
			"path", path,
			"error", err,
		)
	case dropped > 0:
		l.WarnContext(ctx, "decode dropped non-finite rows",
			"path", path,
			"rows", rows,
			"dropped", dropped,
		)
	default:
		l.DebugContext(ctx, "decode completed",
			"path", path,
			"rows", rows,
		)
	}
}

// LogScripts logs a job-script sweep.
func (l *Logger) LogScripts(ctx context.Context, dir string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "job script generation failed",
			"dir", dir,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "job scripts written",
			"dir", dir,
			"count", count,
		)
	}
}

// LogScan logs a results scan.
func (l *Logger) LogScan(ctx context.Context, source string, files, diagnostics int, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "scan failed",
			"source", source,
			"error", err,
		)
	case diagnostics > 0:
		l.WarnContext(ctx, "scan completed with skipped files",
			"source", source,
			"files", files,
			"skipped", diagnostics,
		)
	default:
		l.InfoContext(ctx, "scan completed",
			"source", source,
			"files", files,
		)
	}
}

// LogDiagnostic logs one skipped file of a scan.
func (l *Logger) LogDiagnostic(ctx context.Context, err error) {
	l.WarnContext(ctx, "skipped file", "error", err)
}

// LogQuery logs an aggregation over a series.
func (l *Logger) LogQuery(ctx context.Context, summaries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "aggregation failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "aggregation completed",
			"summaries", summaries,
		)
	}
}
