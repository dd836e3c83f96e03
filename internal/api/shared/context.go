package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is the type of request context keys set by this package.
type ContextKey string

const (
	// TraceIDKey is the key for the trace ID in the request context.
	TraceIDKey ContextKey = "traceID"

	// AdminLoginKey is the key for the authenticated administrator login.
	AdminLoginKey ContextKey = "adminLogin"
)

// SetTraceID adds a fresh trace ID to the context. Trace IDs are 32 hex
// characters and correlate logs with error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// GetTraceID returns the trace ID of the context, or "" when there is none.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithAdminLogin records the authenticated administrator in the context.
func WithAdminLogin(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, AdminLoginKey, login)
}

// AdminLogin returns the authenticated administrator, if any.
func AdminLogin(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(AdminLoginKey).(string)
	return login, ok && login != ""
}
