package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

// RequestIDKey is the context key for request IDs
const RequestIDKey contextKey = "request_id"

// Logger wraps zerolog for application logging
type Logger struct {
	logger zerolog.Logger
}

// Config holds logging configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output io.Writer
}

// New creates a new logger with the given configuration
func New(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var w io.Writer = output
	if cfg.Format == "text" {
		w = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	return &Logger{
		logger: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *Logger) {
	log.Logger = logger.logger
}

// WithRequestID stores id on ctx for WithContext.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request ID stored on ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// WithContext returns the global logger tagged with the request ID from ctx.
func WithContext(ctx context.Context) *zerolog.Logger {
	logger := log.Logger
	if id := RequestID(ctx); id != "" {
		logger = logger.With().Str("request_id", id).Logger()
	}
	return &logger
}

// Upstream logs one call to an external API.
func Upstream(ctx context.Context, provider, path string, statusCode int, duration time.Duration, err error) {
	logger := WithContext(ctx)
	event := logger.Debug()
	switch {
	case err != nil || statusCode >= 500:
		event = logger.Error()
	case statusCode >= 400:
		event = logger.Warn()
	}

	event.
		Str("provider", provider).
		Str("path", path).
		Int("status_code", statusCode).
		Dur("duration_ms", duration).
		Err(err).
		Msg("upstream request")
}
