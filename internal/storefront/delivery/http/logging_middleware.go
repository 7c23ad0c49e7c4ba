package http

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tair/storefront/pkg/logger"
)

// LoggingMiddleware writes one access log line per request; the level
// follows the response status.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(ww, r)

		ctx := r.Context()
		var event *zerolog.Event
		switch {
		case ww.statusCode >= http.StatusInternalServerError:
			event = logger.Error(ctx)
		case ww.statusCode >= http.StatusBadRequest:
			event = logger.Warn(ctx)
		default:
			event = logger.Info(ctx)
		}

		duration := time.Since(start)
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.statusCode).
			Int64("duration_ms", duration.Milliseconds()).
			Str("remote_addr", clientIP(r)).
			Str("request_id", RequestIDFromContext(ctx)).
			Msg("HTTP request")
	})
}
