package serverutils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var now = time.Now

// RateLimitMiddleware allows limit requests per caller per minute using a
// fixed-window counter in Redis. When Redis is unreachable requests pass.
func RateLimitMiddleware(rdb redis.Cmdable, limit int, logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx *fiber.Ctx) error {
		if rdb == nil || limit <= 0 {
			return ctx.Next()
		}

		caller := UserID(ctx)
		if caller == "" {
			caller = ctx.IP()
		}
		window := now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%s:%d", caller, window)

		c := ctx.UserContext()
		count, err := rdb.Incr(c, key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			return ctx.Next()
		}
		if count == 1 {
			if err := rdb.Expire(c, key, time.Minute).Err(); err != nil {
				logger.Warn("rate limiter expire failed", zap.String("key", key), zap.Error(err))
			}
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		ctx.Set("X-RateLimit-Limit", strconv.Itoa(limit))
		ctx.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			return ctx.Status(fiber.StatusTooManyRequests).
				JSON(ErrorResponse(fiber.StatusTooManyRequests, "Rate limit exceeded, try again later"))
		}
		return ctx.Next()
	}
}
