// Package reqid tags every HTTP request with a unique ID. The ID rides
// the request context, comes back on the X-Request-ID response header,
// and logger.WithCtx attaches it to every log line, so one grep ties a
// customer-reported order failure to its full request trace.
package reqid

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

type ctxKey struct{}

// Header carries the request ID on both requests and responses.
const Header = "X-Request-ID"

// New returns a 32-char hex ID from 16 random bytes.
func New() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// WithValue stores id in ctx.
func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx returns the request ID, or "" outside a request.
func FromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// Middleware assigns each request an ID. An inbound X-Request-ID from a
// proxy or load balancer is honoured so traces stay continuous across
// hops; otherwise a fresh ID is generated. Either way the ID is echoed
// on the response for client-side correlation.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if id == "" {
				id = New()
			}
			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), id)))
		})
	}
}
