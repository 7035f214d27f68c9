package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window request counter kept in Redis.
type RateLimiter struct {
	redisClient *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{redisClient: client}
}

// Limit allows limit requests per window for each user (or client IP when no user is known).
// A nil limiter or a Redis error lets the request through.
func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rl == nil || rl.redisClient == nil || limit <= 0 {
			return c.Next()
		}

		who, _ := c.Locals("user_id").(string)
		if who == "" {
			who = c.IP()
		}
		key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, who)

		ctx := c.UserContext()
		count, err := rl.redisClient.Incr(ctx, key).Result()
		if err != nil {
			log.Printf("[RATE_LIMIT] ⚠️ redis error, allowing request: %v", err)
			return c.Next()
		}

		// first hit opens the window
		if count == 1 {
			rl.redisClient.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			ttl, _ := rl.redisClient.TTL(ctx, key).Result()
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%.0f", ttl.Seconds()))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many requests",
				"retry_after": fmt.Sprintf("%.0f seconds", ttl.Seconds()),
			})
		}
		return c.Next()
	}
}
