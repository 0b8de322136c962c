// Package logctx carries a zerolog logger through context.Context.
//
// The command layer builds the logger once and attaches it with WithLogger.
// Library code calls FromContext and never configures output itself. The
// With* helpers attach the fields every rebuild log line is keyed by:
//
//	ctx = logctx.WithArchive(ctx, path)
//	ctx = logctx.WithChunk(ctx, "SPR2", 200, "chair")
//	logctx.FromContext(ctx).Debug().Msg("encoded sprite")
package logctx

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// loggerKey is the private key type for storing loggers in context.
type loggerKey struct{}

var (
	defaultLogger     zerolog.Logger
	defaultLoggerOnce sync.Once
)

func initDefaultLogger() {
	defaultLoggerOnce.Do(func() {
		defaultLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	})
}

// DefaultLogger returns the logger used when a context carries none: JSON
// to stderr with timestamps.
func DefaultLogger() zerolog.Logger {
	initDefaultLogger()
	return defaultLogger
}

// SetDefaultLogger overrides the default logger. Call it during
// initialization only; it is not safe concurrently with FromContext.
func SetDefaultLogger(l zerolog.Logger) {
	initDefaultLogger()
	defaultLogger = l
}

// WithLogger returns a new context with the given logger attached.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext extracts the logger from the context, or returns the default
// logger. It never returns a zero-value logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return DefaultLogger()
	}
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return DefaultLogger()
}

// WithArchive tags log lines with the archive being rebuilt.
func WithArchive(ctx context.Context, path string) context.Context {
	logger := FromContext(ctx).With().Str("archive", path).Logger()
	return WithLogger(ctx, logger)
}

// WithChunk tags log lines with the chunk being built.
func WithChunk(ctx context.Context, typ string, id int16, label string) context.Context {
	logger := FromContext(ctx).With().
		Str("chunk_type", typ).
		Int16("chunk_id", id).
		Str("chunk_label", label).
		Logger()
	return WithLogger(ctx, logger)
}

// WithDescription tags log lines with the object description in use.
func WithDescription(ctx context.Context, path string) context.Context {
	logger := FromContext(ctx).With().Str("description", path).Logger()
	return WithLogger(ctx, logger)
}

// NewLogger creates a logger writing to w. Debug lowers the level to debug;
// human selects the console writer instead of JSON.
func NewLogger(w io.Writer, debug, human bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	if human {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
