// Package integration holds tests that run against real backing services in containers.
package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	rediscache "github.com/andrewhigh08/weather-api/internal/adapter/cache/redis"
)

// TestContainers holds references to test containers
type TestContainers struct {
	RedisContainer testcontainers.Container
	Redis          *redis.Client
}

// SetupTestContainers starts a Redis container for integration testing
func SetupTestContainers(ctx context.Context) (*TestContainers, error) {
	tc := &TestContainers{}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}
	tc.RedisContainer = redisContainer

	// Get Redis connection details
	redisHost, err := redisContainer.Host(ctx)
	if err != nil {
		return tc, fmt.Errorf("failed to get redis host: %w", err)
	}
	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		return tc, fmt.Errorf("failed to get redis port: %w", err)
	}

	// Connect through the adapter so the PING check is exercised too
	tc.Redis, err = rediscache.NewClient(ctx, rediscache.Options{
		Host: redisHost,
		Port: redisPort.Port(),
	})
	if err != nil {
		return tc, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return tc, nil
}

// Teardown stops and removes all containers
func (tc *TestContainers) Teardown(ctx context.Context) error {
	var errs []error

	if tc.Redis != nil {
		if err := tc.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	if tc.RedisContainer != nil {
		if err := tc.RedisContainer.Terminate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to terminate redis container: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("teardown errors: %v", errs)
	}

	return nil
}

// CleanupData removes all keys (for test isolation)
func (tc *TestContainers) CleanupData(ctx context.Context) error {
	return tc.Redis.FlushDB(ctx).Err()
}
