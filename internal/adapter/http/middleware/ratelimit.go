// Package middleware provides HTTP middleware components for the Gin framework.
// Пакет middleware предоставляет компоненты HTTP middleware для фреймворка Gin.
package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/andrewhigh08/weather-api/internal/adapter/http/response"
	"github.com/andrewhigh08/weather-api/internal/pkg/logger"
	"github.com/andrewhigh08/weather-api/internal/port"
)

// RateLimitConfig holds rate limiter configuration.
// RateLimitConfig содержит конфигурацию ограничителя частоты запросов.
type RateLimitConfig struct {
	// RequestsPerSecond is the global rate limit per IP.
	// RequestsPerSecond — глобальный лимит запросов в секунду на IP.
	RequestsPerSecond float64

	// Burst is the maximum number of requests allowed in a burst.
	// With Redis it is the number of requests allowed per second.
	// Burst — максимальное количество запросов, разрешённых в пике.
	// С Redis это количество запросов, разрешённых в секунду.
	Burst int
}

// DefaultRateLimitConfig returns default rate limit configuration.
// DefaultRateLimitConfig возвращает конфигурацию ограничения частоты по умолчанию.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100, // 100 requests per second / 100 запросов в секунду
		Burst:             200, // Allow burst of 200 / Разрешить пик до 200
	}
}

// IPRateLimiter is an in-memory rate limiter per IP address.
// IPRateLimiter — ограничитель частоты в памяти на IP-адрес.
//
// Suitable for single-instance deployments. For distributed systems,
// use RedisRateLimiter instead.
// Подходит для однокопийных развёртываний. Для распределённых систем
// используйте RedisRateLimiter.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter // IP -> Limiter mapping / Сопоставление IP -> Limiter
	config   RateLimitConfig          // Configuration / Конфигурация
}

// NewIPRateLimiter creates a new in-memory IP rate limiter.
// NewIPRateLimiter создаёт новый in-memory ограничитель частоты по IP.
func NewIPRateLimiter(config RateLimitConfig) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		config:   config,
	}
}

// GetLimiter returns the rate limiter for the given IP address.
// GetLimiter возвращает ограничитель частоты для данного IP-адреса.
// Creates a new limiter if one doesn't exist.
// Создаёт новый ограничитель, если он не существует.
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.Burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware returns a Gin middleware for global rate limiting.
// RateLimitMiddleware возвращает Gin middleware для глобального ограничения частоты.
func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			response.TooManyRequests(c, "rate limit exceeded", 1)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RedisRateLimiter uses Redis for distributed rate limiting.
// RedisRateLimiter использует Redis для распределённого ограничения частоты.
//
// Suitable for multi-instance deployments where rate limits must be
// shared across all instances.
// Подходит для многокопийных развёртываний, где лимиты частоты
// должны разделяться между всеми экземплярами.
type RedisRateLimiter struct {
	cache  port.RateLimitCache // Redis cache interface / Интерфейс Redis кэша
	config RateLimitConfig     // Configuration / Конфигурация
	logger *logger.Logger
}

// NewRedisRateLimiter creates a new Redis-based rate limiter.
// NewRedisRateLimiter создаёт новый ограничитель частоты на базе Redis.
func NewRedisRateLimiter(cache port.RateLimitCache, config RateLimitConfig, log *logger.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		cache:  cache,
		config: config,
		logger: log.WithComponent("ratelimit"),
	}
}

// RedisRateLimitMiddleware returns a Gin middleware for Redis-based global rate limiting.
// RedisRateLimitMiddleware возвращает Gin middleware для глобального ограничения частоты на базе Redis.
//
// Counting errors fail open: the request is allowed and the error logged.
// Ошибки подсчёта не блокируют запрос: он пропускается, ошибка логируется.
func RedisRateLimitMiddleware(limiter *RedisRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "global:" + c.ClientIP()

		count, err := limiter.cache.Increment(c.Request.Context(), key, time.Second)
		if err != nil {
			limiter.logger.WithContext(c.Request.Context()).Warn("rate limit counter unavailable",
				"key", key,
				"error", err,
			)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.config.Burst))

		if count > int64(limiter.config.Burst) {
			c.Header("X-RateLimit-Remaining", "0")
			response.TooManyRequests(c, "rate limit exceeded", 1)
			c.Abort()
			return
		}

		// Set rate limit headers / Устанавливаем заголовки лимита частоты
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(int64(limiter.config.Burst)-count, 10))

		c.Next()
	}
}
