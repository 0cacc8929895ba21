// Package logging provides the structured logger shared by all meshkit packages.
package logging

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with meshkit-specific context.
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
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// OrNoop returns l, or a NoopLogger when l is nil.
func OrNoop(l *Logger) *Logger {
	if l == nil {
		return NoopLogger()
	}
	return l
}

// WithMesh tags the logger with a mesh identity and its top dimension.
func (l *Logger) WithMesh(id string, dimension int) *Logger {
	return &Logger{
		Logger: l.Logger.With("mesh", id, "dimension", dimension),
	}
}

// WithOperation tags the logger with an operation name.
func (l *Logger) WithOperation(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("operation", name),
	}
}

// WithCache tags the logger with a cache namespace.
func (l *Logger) WithCache(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("cache", path),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogOperation logs the outcome of a local mesh operation.
// stage names the protocol stage that rejected the edit and is empty on success.
func (l *Logger) LogOperation(name, simplex string, applied bool, stage string) {
	if applied {
		l.Debug("operation applied",
			"operation", name,
			"simplex", simplex,
		)
		return
	}
	l.Debug("operation not applied",
		"operation", name,
		"simplex", simplex,
		"stage", stage,
	)
}

// LogRollback logs the discard of an operation's transaction scopes.
func (l *Logger) LogRollback(name string, meshes int) {
	l.Debug("operation rolled back",
		"operation", name,
		"meshes", meshes,
	)
}

// LogAuditFailure logs a failed connectivity cross-check.
func (l *Logger) LogAuditFailure(check string, primitive string, id int64, args ...any) {
	l.Debug("connectivity audit failed",
		append([]any{"check", check, "primitive", primitive, "id", id}, args...)...,
	)
}

// LogPass logs a finished scheduler pass.
func (l *Logger) LogPass(name string, pass, executed, succeeded int) {
	l.Info("scheduler pass completed",
		"operation", name,
		"pass", pass,
		"executed", executed,
		"succeeded", succeeded,
	)
}

// LogSave logs a mesh write to a file or blob store.
func (l *Logger) LogSave(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "mesh save failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "mesh saved",
		"name", name,
	)
}

// LogLoad logs a mesh read from a file or blob store.
func (l *Logger) LogLoad(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "mesh load failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "mesh loaded",
		"name", name,
	)
}
