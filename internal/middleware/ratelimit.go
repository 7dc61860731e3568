package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"storefront_backend/internal/logger"
	"storefront_backend/pkg/apperrors"
)

const rateLimitKeyPrefix = "ratelimit"

// RateLimiter - фиксированное окно в Redis: INCR + EXPIRE на ключ клиента
type RateLimiter struct {
	client   redis.Cmdable
	requests int64
	window   time.Duration
	timeout  time.Duration
}

func NewRateLimiter(client redis.Cmdable, requests int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client:   client,
		requests: requests,
		window:   window,
		timeout:  500 * time.Millisecond,
	}
}

// Allow возвращает false, если лимит окна исчерпан
func (l *RateLimiter) Allow(ctx context.Context, clientKey string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	bucket := time.Now().UnixNano() / int64(l.window)
	key := fmt.Sprintf("%s:%s:%d", rateLimitKeyPrefix, clientKey, bucket)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return true, err
		}
	}
	return count <= l.requests, nil
}

// RateLimitMiddleware - при недоступном Redis запрос пропускается
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "Rate limiter unavailable, request allowed", "error", err.Error())
		}
		if !allowed {
			apperrors.HandleError(c, apperrors.NewRateLimitError("Too many requests, please try again later."))
			return
		}
		c.Next()
	}
}
