package logging

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	usernameKey  contextKey = "username"
)

// WithRequestID tags ctx so every entry logged with it carries requestID.
// The HTTP client also sends it as X-Request-ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// EnsureRequestID returns ctx unchanged when it already has a request ID,
// and otherwise a child tagged with a fresh UUID.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id := GetRequestIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.New().String()
	return WithRequestID(ctx, id), id
}

// WithUsername tags ctx with the account a call is made for.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

func GetRequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

func GetUsernameFromContext(ctx context.Context) string {
	return stringValue(ctx, usernameKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(key).(string)
	return value
}
