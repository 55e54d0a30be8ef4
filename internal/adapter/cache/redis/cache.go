// Package redis provides Redis-backed adapters for the weather API.
// Пакет redis предоставляет адаптеры weather API на базе Redis.
//
// Redis is optional: it shares rate limit counters between instances and
// takes part in the readiness probe.
// Redis необязателен: он разделяет счётчики rate limit между экземплярами
// и участвует в проверке готовности.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andrewhigh08/weather-api/internal/pkg/apperror"
)

// Options describes how to reach Redis.
// Options описывает подключение к Redis.
type Options struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewClient creates a Redis client and verifies it with PING.
// NewClient создаёт клиент Redis и проверяет его командой PING.
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s:%s: %w", opts.Host, opts.Port, err)
	}

	return client, nil
}

// Pinger adapts a Redis client to port.HealthChecker.
// Pinger адаптирует клиент Redis к port.HealthChecker.
type Pinger struct {
	client *redis.Client
}

// NewPinger creates a Pinger.
// NewPinger создаёт Pinger.
func NewPinger(client *redis.Client) *Pinger {
	return &Pinger{client: client}
}

// Ping checks the connection.
// Ping проверяет соединение.
func (p *Pinger) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return apperror.ServiceUnavailable("redis is unavailable").WithError(err)
	}
	return nil
}

// RateLimitCache implements port.RateLimitCache using Redis.
// RateLimitCache реализует интерфейс port.RateLimitCache с использованием Redis.
//
// Each key is a fixed-window counter that expires with its window.
// Каждый ключ — счётчик фиксированного окна, истекающий вместе с окном.
type RateLimitCache struct {
	client *redis.Client // Redis client / Клиент Redis
	prefix string        // Key prefix / Префикс ключа
}

// NewRateLimitCache creates a new RateLimitCache instance.
// NewRateLimitCache создаёт новый экземпляр RateLimitCache.
func NewRateLimitCache(client *redis.Client) *RateLimitCache {
	return &RateLimitCache{
		client: client,
		prefix: "weather:ratelimit",
	}
}

func (c *RateLimitCache) key(key string) string {
	return c.prefix + ":" + key
}

// Increment increments a counter and returns the new value.
// Increment увеличивает счётчик и возвращает новое значение.
// The expiration is only set when the key is created, so the window does not slide.
// Время истечения задаётся только при создании ключа, поэтому окно не сдвигается.
func (c *RateLimitCache) Increment(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	fullKey := c.key(key)

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, expiration)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, apperror.Internal("failed to increment rate limit counter", err)
	}

	return incr.Val(), nil
}

// GetCount retrieves the current count for a rate limit key.
// GetCount получает текущее значение счётчика для ключа rate limit.
func (c *RateLimitCache) GetCount(ctx context.Context, key string) (int64, error) {
	val, err := c.client.Get(ctx, c.key(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil // Key doesn't exist, count is 0 / Ключ не существует, счётчик равен 0
		}
		return 0, apperror.Internal("failed to get rate limit count", err)
	}
	return val, nil
}

// Reset resets the counter for a key.
// Reset сбрасывает счётчик для ключа.
func (c *RateLimitCache) Reset(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return apperror.Internal("failed to reset rate limit counter", err)
	}
	return nil
}
