package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit caps issue creation per user. Keys are prefix:userID with a
// TTL of window set on the first increment.
type RateLimit struct {
	Client *redis.Client
	Prefix string
	Limit  int
	Window time.Duration
	Log    *slog.Logger
}

// IssueRateLimiter must run after RequireAuth. A nil client disables it.
func IssueRateLimiter(rl RateLimit) gin.HandlerFunc {
	if rl.Log == nil {
		rl.Log = slog.Default()
	}
	return func(c *gin.Context) {
		if rl.Client == nil || rl.Limit <= 0 {
			c.Next()
			return
		}
		identity := IdentityFrom(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		ctx := c.Request.Context()
		userKey := rl.Prefix + ":" + identity.ID.Hex()

		count, err := rl.Client.Incr(ctx, userKey).Result()
		if err != nil {
			// Redis being down should not block reporting.
			rl.Log.Warn("rate limiter unavailable", "err", err)
			c.Next()
			return
		}

		// TTL only on the first increment so the window is fixed.
		if count == 1 {
			if err := rl.Client.Expire(ctx, userKey, rl.Window).Err(); err != nil {
				rl.Log.Warn("rate limiter expire failed", "key", userKey, "err", err)
			}
		}

		if count > int64(rl.Limit) {
			retryAfter, _ := rl.Client.TTL(ctx, userKey).Result()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":     "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			return
		}

		c.Next()
	}
}
