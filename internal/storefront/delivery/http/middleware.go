package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/tair/storefront/internal/storefront"
	"github.com/tair/storefront/pkg/logger"
)

type contextKey string

const SessionKey contextKey = "storefront_session"

// SessionMiddleware resolves the shopper session from the bearer token
func SessionMiddleware(service *storefront.Service) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn(r.Context()).Msg("Missing authorization header")
				respondError(w, http.StatusUnauthorized, "Session token required")
				return
			}

			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Warn(r.Context()).Msg("Invalid authorization header format")
				respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			sess, err := service.Resume(r.Context(), parts[1])
			if err != nil {
				logger.Warn(r.Context()).Err(err).Msg("Invalid session token")
				respondError(w, http.StatusUnauthorized, "Invalid session token")
				return
			}

			logger.Debug(r.Context()).
				Str("session_id", sess.ID).
				Str("page", sess.Page.Key).
				Msg("Session resolved")

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// SessionFromContext returns the session put in ctx by SessionMiddleware
func SessionFromContext(ctx context.Context) *storefront.Session {
	sess, _ := ctx.Value(SessionKey).(*storefront.Session)
	return sess
}

// Helper function for error responses
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Response{
		Success: false,
		Error:   message,
	})
}
