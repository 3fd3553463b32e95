package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postgate/internal/api/handlers"
	"github.com/maheshrc27/postgate/pkg/logging"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CheckRateLimit counts a hit for resource and id in a fixed window and
// reports whether the hit is within limit.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(limit), nil
}

// RateLimit limits each operator to limit requests per window on the
// routes it guards. A non-positive limit disables it. When redis is
// unreachable requests pass.
func RateLimit(rdb *redis.Client, resource string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limit <= 0 {
			return c.Next()
		}

		id := fmt.Sprintf("operator:%d", handlers.GetOperatorID(c))
		if id == "operator:0" {
			id = "ip:" + c.IP()
		}

		allowed, err := CheckRateLimit(c.Context(), rdb, resource, id, limit, window)
		if err != nil {
			logging.GetLogger().Warn("rate limit check failed",
				zap.String("resource", resource),
				zap.Error(err))
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
				"code":  "rate_limited",
			})
		}
		return c.Next()
	}
}
