package integration

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rediscache "github.com/andrewhigh08/weather-api/internal/adapter/cache/redis"
	"github.com/andrewhigh08/weather-api/internal/adapter/http/middleware"
	"github.com/andrewhigh08/weather-api/internal/pkg/logger"
)

func TestIntegration_RedisRateLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	tc, err := SetupTestContainers(ctx)
	require.NoError(t, err)
	defer func() { _ = tc.Teardown(ctx) }()

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, rediscache.NewPinger(tc.Redis).Ping(ctx))
	})

	t.Run("counter lifecycle", func(t *testing.T) {
		require.NoError(t, tc.CleanupData(ctx))
		cache := rediscache.NewRateLimitCache(tc.Redis)

		for want := int64(1); want <= 3; want++ {
			got, err := cache.Increment(ctx, "client", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}

		count, err := cache.GetCount(ctx, "client")
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		ttl, err := tc.Redis.TTL(ctx, "weather:ratelimit:client").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))

		require.NoError(t, cache.Reset(ctx, "client"))
		count, err = cache.GetCount(ctx, "client")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("middleware rejects over burst", func(t *testing.T) {
		require.NoError(t, tc.CleanupData(ctx))

		cache := rediscache.NewRateLimitCacheWithCB(rediscache.NewRateLimitCache(tc.Redis),
			rediscache.DefaultCircuitBreakerConfig())
		limiter := middleware.NewRedisRateLimiter(cache,
			middleware.RateLimitConfig{RequestsPerSecond: 2, Burst: 2},
			logger.New(logger.Config{Level: "error", Output: io.Discard}))

		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(middleware.RedisRateLimitMiddleware(limiter))
		router.GET("/api/v1/status", func(c *gin.Context) { c.Status(http.StatusOK) })

		codes := make([]int, 0, 3)
		for range 3 {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody))
			codes = append(codes, w.Code)
		}

		// The three requests may straddle a one-second window boundary.
		// Три запроса могут попасть на границу секундного окна.
		if codes[2] == http.StatusOK {
			t.Skip("requests crossed a rate limit window")
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})
}
