package logging

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// traceIDKey is the context key for the per-run trace ID.
type traceIDKey struct{}

// FromContext returns the logger stored in ctx, or a disabled logger
// when none was attached.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// NewTraceID generates a new ULID trace identifier.
func NewTraceID() string {
	return ulid.Make().String()
}

// ContextWithTraceID returns a child context carrying the trace ID.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext extracts the trace ID from ctx, or "" if unset.
func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetOrGenerateTraceID returns the trace ID attached to ctx, minting a
// fresh one when the context has none.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	return NewTraceID()
}
