package redis

import (
	"context"
	"time"

	"github.com/andrewhigh08/weather-api/internal/pkg/circuitbreaker"
	"github.com/andrewhigh08/weather-api/internal/port"
)

// CircuitBreakerConfig holds configuration for cache circuit breakers.
// CircuitBreakerConfig содержит конфигурацию circuit breaker для кэша.
type CircuitBreakerConfig struct {
	MaxFailures   int                                              // Failures before opening / Сбоев до размыкания
	Timeout       time.Duration                                    // Open period / Период размыкания
	OnStateChange func(name string, from, to circuitbreaker.State) // Transition hook / Хук перехода
}

// DefaultCircuitBreakerConfig returns default circuit breaker configuration for Redis.
// DefaultCircuitBreakerConfig возвращает конфигурацию circuit breaker по умолчанию для Redis.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxFailures: 5,
		Timeout:     30 * time.Second,
	}
}

// RateLimitCacheWithCB wraps a rate limit cache with circuit breaker protection.
// RateLimitCacheWithCB оборачивает кэш rate limit защитой circuit breaker.
type RateLimitCacheWithCB struct {
	cache port.RateLimitCache
	cb    *circuitbreaker.CircuitBreaker
}

// NewRateLimitCacheWithCB creates a new rate limit cache with circuit breaker.
// NewRateLimitCacheWithCB создаёт новый кэш rate limit с circuit breaker.
func NewRateLimitCacheWithCB(cache port.RateLimitCache, config CircuitBreakerConfig) *RateLimitCacheWithCB {
	return &RateLimitCacheWithCB{
		cache: cache,
		cb: circuitbreaker.New(circuitbreaker.Config{
			Name:                "redis-ratelimit",
			MaxFailures:         config.MaxFailures,
			Timeout:             config.Timeout,
			MaxHalfOpenRequests: 1,
			OnStateChange:       config.OnStateChange,
		}),
	}
}

// Increment increments a rate limit counter with circuit breaker protection.
// Increment увеличивает счётчик rate limit с защитой circuit breaker.
func (c *RateLimitCacheWithCB) Increment(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	return circuitbreaker.ExecuteWithResult(ctx, c.cb, func(ctx context.Context) (int64, error) {
		return c.cache.Increment(ctx, key, expiration)
	})
}

// GetCount retrieves current count with circuit breaker protection.
// GetCount получает текущий счётчик с защитой circuit breaker.
func (c *RateLimitCacheWithCB) GetCount(ctx context.Context, key string) (int64, error) {
	return circuitbreaker.ExecuteWithResult(ctx, c.cb, func(ctx context.Context) (int64, error) {
		return c.cache.GetCount(ctx, key)
	})
}

// Reset resets a rate limit counter with circuit breaker protection.
// Reset сбрасывает счётчик rate limit с защитой circuit breaker.
func (c *RateLimitCacheWithCB) Reset(ctx context.Context, key string) error {
	return c.cb.Execute(ctx, func(ctx context.Context) error {
		return c.cache.Reset(ctx, key)
	})
}

// CircuitBreakerState returns the current state of the circuit breaker.
// CircuitBreakerState возвращает текущее состояние circuit breaker.
func (c *RateLimitCacheWithCB) CircuitBreakerState() circuitbreaker.State {
	return c.cb.State()
}

// Ensure interface compliance. / Проверка соответствия интерфейсу.
var (
	_ port.RateLimitCache = (*RateLimitCache)(nil)
	_ port.RateLimitCache = (*RateLimitCacheWithCB)(nil)
	_ port.HealthChecker  = (*Pinger)(nil)
)
