package logger

import (
	"context"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

// Context keys for common logging fields.
// These keys are used to store values in context.Context that will be
// automatically extracted and added to log entries.
const (
	// ContextKeySessionID identifies the streaming connection session.
	ContextKeySessionID contextKey = "session_id"

	// ContextKeyRequestID identifies an individual HTTP request.
	ContextKeyRequestID contextKey = "request_id"

	// ContextKeyRemoteAddr records the peer address of the connection.
	ContextKeyRemoteAddr contextKey = "remote_addr"

	// ContextKeyBackground identifies the background selection in effect.
	ContextKeyBackground contextKey = "background"

	// ContextKeyEnvironment identifies the deployment environment.
	ContextKeyEnvironment contextKey = "environment"
)

// allContextKeys lists all context keys that should be extracted for logging.
// This is used by the handler to iterate over all possible context values.
var allContextKeys = []contextKey{
	ContextKeySessionID,
	ContextKeyRequestID,
	ContextKeyRemoteAddr,
	ContextKeyBackground,
	ContextKeyEnvironment,
}

// WithSessionID returns a new context with the session ID set.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ContextKeySessionID, sessionID)
}

// WithRequestID returns a new context with the request ID set.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// WithRemoteAddr returns a new context with the peer address set.
func WithRemoteAddr(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, ContextKeyRemoteAddr, addr)
}

// WithBackground returns a new context with the active background ID set.
func WithBackground(ctx context.Context, backgroundID string) context.Context {
	return context.WithValue(ctx, ContextKeyBackground, backgroundID)
}

// WithEnvironment returns a new context with the deployment environment set.
func WithEnvironment(ctx context.Context, environment string) context.Context {
	return context.WithValue(ctx, ContextKeyEnvironment, environment)
}

// SessionIDFrom extracts the session ID from the context, or "" when unset.
func SessionIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeySessionID).(string); ok {
		return v
	}
	return ""
}
