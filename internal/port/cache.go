package port

import (
	"context"
	"time"
)

// RateLimitCache defines the interface for rate limiting operations.
// RateLimitCache определяет интерфейс для операций ограничения частоты запросов.
//
// Counters live in a shared store so several API instances enforce one limit.
// Счётчики хранятся в общем хранилище, чтобы несколько экземпляров API
// применяли единый лимит.
type RateLimitCache interface {
	// Increment increments a counter and returns the new value.
	// Increment увеличивает счётчик и возвращает новое значение.
	// Sets expiration if this is a new key.
	// Устанавливает время истечения, если это новый ключ.
	Increment(ctx context.Context, key string, expiration time.Duration) (int64, error)

	// GetCount retrieves the current count for a rate limit key.
	// GetCount получает текущее значение счётчика для ключа rate limit.
	GetCount(ctx context.Context, key string) (int64, error)

	// Reset resets the counter for a key.
	// Reset сбрасывает счётчик для ключа.
	Reset(ctx context.Context, key string) error
}

// HealthChecker reports whether an external dependency is reachable.
// HealthChecker сообщает, доступна ли внешняя зависимость.
type HealthChecker interface {
	// Ping returns an error when the dependency is unavailable.
	// Ping возвращает ошибку, если зависимость недоступна.
	Ping(ctx context.Context) error
}
