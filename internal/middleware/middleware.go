// Package middleware provides the HTTP middleware chain shared by every
// route: request-id tagging, CORS, access logging and the
// Sec-WebSocket-Protocol bearer-token shim, in the idiom of the
// teacher's internal/middleware and internal/middlewares packages.
package middleware

import (
	"context"
	"net/http"

	"github.com/MadAppGang/httplog"
	"github.com/google/uuid"
	"github.com/rs/cors"
)

// Middleware wraps a handler with cross-cutting behavior.
type Middleware func(next http.Handler) http.Handler

// Chain applies mws in argument order, so the first middleware is the
// outermost (first to see the request, last to see the response).
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type ctxKeyRequestID int

// RequestIDKey is the context.Context key RequestIDMiddleware stores the
// request id under.
const RequestIDKey ctxKeyRequestID = 0

// RequestIDMiddleware tags every request with an id, reusing an
// upstream X-Request-ID header when present.
func RequestIDMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

// NewCORS builds the rs/cors middleware from an allow-list of origins.
func NewCORS(allowedOrigins []string) Middleware {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Accept", "trace"},
	}).Handler
}

// NewAccessLog builds the MadAppGang/httplog access-logging middleware.
func NewAccessLog(routerName string) Middleware {
	return httplog.LoggerWithConfig(httplog.LoggerConfig{
		RouterName: routerName,
		Formatter:  httplog.DefaultLogFormatter,
	})
}

// Default returns the standard middleware stack every route gets:
// request id, CORS, access log.
func Default(allowedOrigins []string) []Middleware {
	return []Middleware{RequestIDMiddleware, NewCORS(allowedOrigins), NewAccessLog("territoryd")}
}
