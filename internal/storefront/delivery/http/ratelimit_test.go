package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLimiter struct {
	mu    sync.Mutex
	max   int
	seen  map[string]int
	err   error
	reset time.Time
}

func (l *countingLimiter) Allow(_ context.Context, identifier string) (RateDecision, error) {
	if l.err != nil {
		return RateDecision{}, l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seen == nil {
		l.seen = make(map[string]int)
	}
	count := l.seen[identifier]
	l.seen[identifier]++
	return RateDecision{
		Allowed:   count < l.max,
		Limit:     l.max,
		Remaining: max(l.max-count-1, 0),
		Reset:     l.reset,
	}, nil
}

func limitedHandler(limiter Limiter) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return RateLimitMiddleware(limiter)(ok)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := &countingLimiter{max: 2, reset: time.Now().Add(time.Minute)}
	h := limitedHandler(limiter)

	call := func(path, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = ip + ":41000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := call("/api/catalog", "10.0.0.1")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, call("/api/catalog", "10.0.0.1").Code)

	denied := call("/api/catalog", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, denied.Code)
	assert.NotEmpty(t, denied.Header().Get("Retry-After"))

	// other clients and non-API paths are not affected
	assert.Equal(t, http.StatusOK, call("/api/catalog", "10.0.0.2").Code)
	assert.Equal(t, http.StatusOK, call("/health", "10.0.0.1").Code)
}

func TestRateLimitMiddlewareFailsOpen(t *testing.T) {
	h := limitedHandler(&countingLimiter{err: errors.New("redis down")})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pages", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}

func TestRedisRateLimiter(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	limiter := NewRedisRateLimiter(client, "storefront-test:"+uuid.NewString()+":", 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := limiter.Allow(ctx, "client")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := limiter.Allow(ctx, "client")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	d, err = limiter.Allow(ctx, "other")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}
