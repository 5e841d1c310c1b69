// Package middleware provides the HTTP middleware chain for the Simmr API:
// request IDs, structured request logging, panic recovery, hardening
// headers, CORS, IP rate limiting and request field validation.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

// RequestIDKey locates the request ID in a request context.
const RequestIDKey contextKey = "request_id"

// RequestIDHeader carries the request ID on the wire in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with an ID, honoring one supplied by the
// caller so IDs can follow a request across services. The ID is echoed back
// in the response headers.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request ID, or "" outside the middleware chain.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
