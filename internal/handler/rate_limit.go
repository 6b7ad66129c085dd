package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/user-service/internal/dto"
	"github.com/prperemyshlev/user-service/internal/service"
	"go.uber.org/zap"
)

// RateLimiter is satisfied by service.RateLimiter
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}

// RateLimitMiddleware creates a rate limiting middleware. Limiter failures
// other than an exhausted window let the request through.
func RateLimitMiddleware(limiter RateLimiter, limit int, window time.Duration, keyFunc func(*gin.Context) string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		remaining, err := limiter.Allow(c.Request.Context(), keyFunc(c), limit, window)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))

		if err != nil {
			var rlErr *service.RateLimitError
			if errors.As(err, &rlErr) {
				c.Header("X-RateLimit-Remaining", "0")
				c.Header("Retry-After", strconv.Itoa(int(rlErr.RetryAfter.Seconds())))
				c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
					Error:   "Too Many Requests",
					Message: rlErr.Error(),
				})
				return
			}

			logger.Warn("Rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Next()
	}
}

// IPBasedKey extracts rate limit key from client IP
func IPBasedKey(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// RouteAndIPKey limits each route separately per client IP
func RouteAndIPKey(c *gin.Context) string {
	return c.FullPath() + ":" + IPBasedKey(c)
}
