package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/storefront/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"

	requestIDKey contextKey = "request_id"
)

// MiddlewareConfig selects what is wrapped around the storefront router
type MiddlewareConfig struct {
	Logging  bool
	Tracing  bool
	Recovery bool
	// Timeout bounds every request; zero disables it.
	Timeout time.Duration
	// Limiter rate limits /api requests when set.
	Limiter Limiter
	// CORS is applied outside the router by SetupCORS; nil disables it.
	CORS *cors.Options
}

// DefaultMiddlewareConfig returns default middleware configuration
func DefaultMiddlewareConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		Logging:  true,
		Tracing:  true,
		Recovery: true,
		Timeout:  30 * time.Second,
		CORS: &cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{
				http.MethodGet, http.MethodPost, http.MethodPut,
				http.MethodPatch, http.MethodDelete, http.MethodOptions,
			},
			AllowedHeaders: []string{"Authorization", "Content-Type", RequestIDHeader},
			ExposedHeaders: []string{
				RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset",
			},
		},
	}
}

type namedMiddleware struct {
	name string
	mw   mux.MiddlewareFunc
}

// RegisterMiddlewares registers the configured middlewares on the router,
// outermost first.
func RegisterMiddlewares(router *mux.Router, config *MiddlewareConfig) {
	var chain []namedMiddleware

	if config.Recovery {
		chain = append(chain, namedMiddleware{"recovery", RecoveryMiddleware})
	}
	if config.Timeout > 0 {
		chain = append(chain, namedMiddleware{"timeout", TimeoutMiddleware(config.Timeout)})
	}
	// the span must exist before the request id and the logs are attached
	if config.Tracing {
		chain = append(chain, namedMiddleware{"tracing", TracingMiddleware("storefront-http-request")})
	}
	chain = append(chain, namedMiddleware{"request_id", RequestIDMiddleware})
	if config.Logging {
		chain = append(chain, namedMiddleware{"logging", LoggingMiddleware})
	}
	if config.Limiter != nil {
		chain = append(chain, namedMiddleware{"rate_limit", RateLimitMiddleware(config.Limiter)})
	}
	chain = append(chain, namedMiddleware{"headers", HeadersMiddleware})

	names := make([]string, 0, len(chain))
	for _, m := range chain {
		router.Use(m.mw)
		names = append(names, m.name)
	}

	logger.Logger.Info().
		Strs("middlewares", names).
		Dur("timeout", config.Timeout).
		Msg("Registered middlewares")
}

// RecoveryMiddleware turns a panicking handler into a 500 response
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(r.Context()).
					Interface("panic", err).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("request_id", RequestIDFromContext(r.Context())).
					Msg("Panic recovered")

				respondError(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// TimeoutMiddleware answers 503 when a handler runs longer than timeout
func TimeoutMiddleware(timeout time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, "Request timeout")
	}
}

// TracingMiddleware starts a server span per request, named after the route
// template when one matched.
func TracingMiddleware(operationName string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, operationName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if route := mux.CurrentRoute(r); route != nil {
					if tpl, err := route.GetPathTemplate(); err == nil {
						return r.Method + " " + tpl
					}
				}
				return operationName
			}),
		)
	}
}

// RequestIDMiddleware propagates the client's request id or assigns a new one
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the id assigned by RequestIDMiddleware
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// HeadersMiddleware sets the security headers. Responses to session requests
// hold a shopper's cart and are never cached.
func HeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// swagger UI ships inline scripts
		if !strings.HasPrefix(r.URL.Path, "/swagger/") {
			h.Set("Content-Security-Policy", "default-src 'self'")
		}
		if r.Header.Get("Authorization") != "" || r.URL.Path == "/api/session" {
			h.Set("Cache-Control", "no-store")
		}

		next.ServeHTTP(w, r)
	})
}

// SetupCORS wraps the whole router so preflight requests never reach it
func SetupCORS(config *MiddlewareConfig) func(http.Handler) http.Handler {
	if config.CORS == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.New(*config.CORS).Handler
}
