package logging

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const contextKeyTraceID = contextKey("traceID")

// TraceIDFromContext extracts the trace id stored by WithTraceID.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(contextKeyTraceID).(string)
	return id, ok && id != ""
}

// WithTraceID returns a context carrying id as the operation trace id.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyTraceID, id)
}

// EnsureTraceID returns ctx unchanged if it already carries a trace id,
// otherwise a child context with a freshly generated one.
func EnsureTraceID(ctx context.Context) context.Context {
	if _, ok := TraceIDFromContext(ctx); ok {
		return ctx
	}
	return WithTraceID(ctx, uuid.NewString())
}
