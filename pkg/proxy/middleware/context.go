// Package middleware provides the HTTP middleware chain: panic recovery,
// request IDs, and structured request logging.
package middleware

// contextKey is a private type for context values set by this package.
type contextKey string

const (
	// RequestIDKey carries the request ID.
	RequestIDKey contextKey = "request_id"
	// StartTimeKey carries the request start time.
	StartTimeKey contextKey = "start_time"
)
