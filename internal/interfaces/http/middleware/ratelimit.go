package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/interfaces/http/dto"
)

// RateLimiter counts requests per client in fixed windows backed by
// Redis, so the limit holds across server replicas.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *zap.Logger
}

// NewRateLimiter creates a Redis-backed rate limiter
func NewRateLimiter(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// Allow increments the client's window counter and reports whether the
// request is within the limit, along with the remaining allowance.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	bucket := "ratelimit:" + key + ":" + strconv.FormatInt(time.Now().Unix()/int64(rl.window.Seconds()), 10)

	pipe := rl.client.TxPipeline()
	count := pipe.Incr(ctx, bucket)
	pipe.Expire(ctx, bucket, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	used := int(count.Val())
	remaining := rl.limit - used
	if remaining < 0 {
		remaining = 0
	}
	return used <= rl.limit, remaining, nil
}

// RateLimit enforces the per-client request limit. Redis failures let the
// request through: throttling is protection, not a dependency.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if actor, ok := GetActor(c); ok {
			key = actor.UserID.String()
		}

		allowed, remaining, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			limiter.logger.Warn("Rate limit check failed, allowing request", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse(dto.ErrCodeRateLimited, "Too many requests, try again later", GetRequestID(c)))
			return
		}
		c.Next()
	}
}
