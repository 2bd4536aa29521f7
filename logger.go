package vecstream

import (
	"log/slog"
	"os"

	"github.com/hupe1980/vecstream/model"
)

// Logger wraps slog.Logger with vecstream-specific context.
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
	return NewLogger(slog.DiscardHandler)
}

// WithEncoding adds an encoding field to the logger.
func (l *Logger) WithEncoding(enc model.Encoding) *Logger {
	return &Logger{
		Logger: l.Logger.With("encoding", enc.String()),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogNext logs a vector handed out by a reader.
func (l *Logger) LogNext(requested model.Encoding, doc model.DocID) {
	l.Debug("vector read",
		"requested", requested.String(),
		"doc", int32(doc),
	)
}

// LogSkip logs a document consumed by an accessor that does not match the
// store encoding.
func (l *Logger) LogSkip(requested model.Encoding, doc model.DocID) {
	l.Debug("encoding mismatch, document skipped",
		"requested", requested.String(),
		"doc", int32(doc),
	)
}

// LogExhausted logs the transition of a reader into its terminal state.
func (l *Logger) LogExhausted(read, skipped int) {
	l.Debug("reader exhausted",
		"read", read,
		"skipped", skipped,
	)
}

// LogFailure logs a store read failure.
func (l *Logger) LogFailure(requested model.Encoding, doc model.DocID, err error) {
	l.Error("vector read failed",
		"requested", requested.String(),
		"doc", int32(doc),
		"error", err,
	)
}
