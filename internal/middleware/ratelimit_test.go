package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_backend/internal/testutil"
)

// counterStore - счетчики в памяти вместо Redis; остальные команды не нужны
type counterStore struct {
	redis.Cmdable

	mu      sync.Mutex
	counts  map[string]int64
	ttls    map[string]time.Duration
	incrErr error
}

func newCounterStore() *counterStore {
	return &counterStore{counts: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (s *counterStore) Incr(_ context.Context, key string) *redis.IntCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.incrErr != nil {
		return redis.NewIntResult(0, s.incrErr)
	}
	s.counts[key]++
	return redis.NewIntResult(s.counts[key], nil)
}

func (s *counterStore) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ttls[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func limitedRouter(store *counterStore, requests int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(NewRateLimiter(store, requests, time.Hour)))
	router.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func ping(router *gin.Engine) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	return rec
}

func TestRateLimitMiddleware_FixedWindow(t *testing.T) {
	store := newCounterStore()
	router := limitedRouter(store, 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, ping(router).Code, "request %d", i+1)
	}

	rec := ping(router)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	testutil.DecodeJSON(t, rec.Body.String(), &body)
	assert.False(t, body.Success)
	assert.Equal(t, "Too many requests, please try again later.", body.Message)

	// TTL ставится один раз, на первом запросе окна
	require.Len(t, store.ttls, 1)
	for _, ttl := range store.ttls {
		assert.Equal(t, time.Hour, ttl)
	}
}

func TestRateLimitMiddleware_FailsOpen(t *testing.T) {
	store := newCounterStore()
	store.incrErr = errors.New("connection refused")
	router := limitedRouter(store, 1)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, ping(router).Code)
	}
	assert.Empty(t, store.ttls)
}

func TestRateLimiter_KeysPerClient(t *testing.T) {
	store := newCounterStore()
	limiter := NewRateLimiter(store, 1, time.Hour)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed, "another client has its own window")

	allowed, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
}
