package logger

import "context"

// contextKey keeps request-ID values from colliding with context keys
// set by other packages.
type contextKey struct{}

var requestIDKey = contextKey{}

// WithRequestID stores id on the context for RequestID to read back.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID carried by ctx, or "" when unset.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
