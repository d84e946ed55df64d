package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/logger"
)

// ConnectRedis returns a client for addr, or nil when addr is empty or the
// server does not answer a ping. A nil client disables rate limiting.
func ConnectRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", "addr", addr, "error", err)
		client.Close()
		return nil
	}
	return client
}

// RateLimiter is a fixed-window limiter keyed by client IP and backed by
// Redis INCR/EXPIRE. It fails open: without Redis every request passes.
type RateLimiter struct {
	client      *redis.Client
	name        string
	maxRequests int
	window      time.Duration
}

// NewRateLimiter creates a limiter; name separates the key space of
// independent limiters.
func NewRateLimiter(client *redis.Client, name string, maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client:      client,
		name:        name,
		maxRequests: maxRequests,
		window:      window,
	}
}

// key format: rl:<name>:<window_seconds>:<ip>
func (l *RateLimiter) key(ident string) string {
	return "rl:" + l.name + ":" + strconv.FormatInt(int64(l.window.Seconds()), 10) + ":" + ident
}

// ensureExpiry sets the window TTL on the first hit of a window. Once over the
// limit it also repairs a key left without a TTL, which would otherwise block
// the client forever.
func (l *RateLimiter) ensureExpiry(ctx context.Context, key string, val int64) error {
	if val == 1 {
		return l.client.Expire(ctx, key, l.window).Err()
	}
	if val <= int64(l.maxRequests) {
		return nil
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil {
		return err
	}
	// -1 means the key exists without an expiry.
	if ttl == -1 {
		return l.client.Expire(ctx, key, l.window).Err()
	}
	return nil
}

// Handler returns the gin middleware
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.client == nil || l.maxRequests <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := l.key(c.ClientIP())

		val, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}
		if err := l.ensureExpiry(ctx, key, val); err != nil {
			logger.Warn("rate limiter could not set key expiry", "key", key, "error", err)
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		remaining := int64(l.maxRequests) - val
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if val > int64(l.maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			apierrors.TooManyRequests(c)
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
