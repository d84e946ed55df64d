package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_FailsOpenWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", NewRateLimiter(nil, "test", 1, time.Minute).Handler(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiter_FailsOpenOnRedisError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	t.Cleanup(func() { client.Close() })

	r := gin.New()
	r.GET("/test", NewRateLimiter(client, "test", 1, time.Minute).Handler(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "redis-error", w.Header().Get("X-RateLimit-Error"))
}

func TestConnectRedis_EmptyAddr(t *testing.T) {
	assert.Nil(t, ConnectRedis("", "", 0))
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRateLimiter_RedisIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	client := ConnectRedis(addr, os.Getenv("REDIS_PASSWORD"), db)
	require.NotNil(t, client)
	t.Cleanup(func() { client.Close() })

	max := 2
	limiter := NewRateLimiter(client, "test-"+uuid.NewString(), max, 2*time.Second)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", limiter.Handler(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < max; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimiter_RepairsKeyWithoutExpiry(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}

	client := ConnectRedis(addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NotNil(t, client)
	t.Cleanup(func() { client.Close() })

	limiter := NewRateLimiter(client, "test-"+uuid.NewString(), 1, time.Minute)
	key := limiter.key("192.0.2.1")
	ctx := context.Background()
	// A counter already over the limit whose TTL was never set.
	require.NoError(t, client.Set(ctx, key, 5, 0).Err())
	t.Cleanup(func() { client.Del(context.Background(), key) })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", limiter.Handler(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}
