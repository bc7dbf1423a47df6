package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext extracts the logger from context
// If no logger is found, returns a disabled logger (no-op)
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent creates a child logger with a component field
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("component", component).Logger()
	return WithContext(ctx, childLogger)
}

// WithWindow creates a child logger tagged with an engine window id.
func WithWindow(ctx context.Context, windowID int) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Int("window_id", windowID).Logger()
	return WithContext(ctx, childLogger)
}

// WithURL creates a child logger with a url field
func WithURL(ctx context.Context, url string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("url", TruncateURL(url, maxLoggedURL)).Logger()
	return WithContext(ctx, childLogger)
}

const maxLoggedURL = 120

// TruncateURL shortens long URLs (data: URLs mostly) for log output.
func TruncateURL(url string, limit int) string {
	if limit <= 3 || len(url) <= limit {
		return url
	}
	return url[:limit-3] + "..."
}
