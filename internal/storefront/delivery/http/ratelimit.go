package http

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/tair/storefront/pkg/logger"
)

// RateDecision is the outcome of one rate limit check
type RateDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter decides whether a client may make another request
type Limiter interface {
	Allow(ctx context.Context, identifier string) (RateDecision, error)
}

// RedisRateLimiter is a sliding window limiter kept in a redis sorted set per client
type RedisRateLimiter struct {
	client      redis.Cmdable
	prefix      string
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

// NewRedisRateLimiter creates a new rate limiter
func NewRedisRateLimiter(client redis.Cmdable, prefix string, maxRequests int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:      client,
		prefix:      prefix,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Allow records the request and reports whether it fits in the window
func (rl *RedisRateLimiter) Allow(ctx context.Context, identifier string) (RateDecision, error) {
	key := rl.prefix + "ratelimit:" + identifier
	now := rl.now()
	windowStart := now.Add(-rl.window)

	pipe := rl.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString()),
	})
	pipe.Expire(ctx, key, rl.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return RateDecision{}, fmt.Errorf("failed to check rate limit: %w", err)
	}

	count := int(countCmd.Val())
	remaining := rl.maxRequests - count - 1
	if remaining < 0 {
		remaining = 0
	}

	return RateDecision{
		Allowed:   count < rl.maxRequests,
		Limit:     rl.maxRequests,
		Remaining: remaining,
		Reset:     now.Add(rl.window),
	}, nil
}

// RateLimitMiddleware limits /api requests per client address. Limiter
// failures let the request through.
func RateLimitMiddleware(limiter Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}

			identifier := clientIP(r)
			decision, err := limiter.Allow(r.Context(), identifier)
			if err != nil {
				logger.Error(r.Context()).
					Err(err).
					Str("identifier", identifier).
					Msg("Rate limiter error")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))

			if !decision.Allowed {
				retryAfter := time.Until(decision.Reset)
				logger.Warn(r.Context()).
					Str("identifier", identifier).
					Int("limit", decision.Limit).
					Msg("Rate limit exceeded")

				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				respondError(w, http.StatusTooManyRequests,
					fmt.Sprintf("Too many requests. Try again in %v", retryAfter.Round(time.Second)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
