package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewhigh08/weather-api/internal/pkg/circuitbreaker"
)

type flakyCounter struct {
	err   error
	calls int
	count int64
}

func (f *flakyCounter) Increment(context.Context, string, time.Duration) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	f.count++
	return f.count, nil
}

func (f *flakyCounter) GetCount(context.Context, string) (int64, error) {
	f.calls++
	return f.count, f.err
}

func (f *flakyCounter) Reset(context.Context, string) error {
	f.calls++
	f.count = 0
	return f.err
}

func TestRateLimitCacheWithCB_PassesThrough(t *testing.T) {
	inner := &flakyCounter{}
	cache := NewRateLimitCacheWithCB(inner, DefaultCircuitBreakerConfig())
	ctx := context.Background()

	n, err := cache.Increment(ctx, "ip:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = cache.GetCount(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, cache.Reset(ctx, "ip:1.2.3.4"))
	assert.Equal(t, circuitbreaker.StateClosed, cache.CircuitBreakerState())
}

func TestRateLimitCacheWithCB_OpensOnFailures(t *testing.T) {
	inner := &flakyCounter{err: errors.New("dial tcp: connection refused")}
	cache := NewRateLimitCacheWithCB(inner, CircuitBreakerConfig{MaxFailures: 2, Timeout: time.Hour})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := cache.Increment(ctx, "k", time.Minute)
		require.Error(t, err)
	}
	require.Equal(t, circuitbreaker.StateOpen, cache.CircuitBreakerState())

	_, err := cache.Increment(ctx, "k", time.Minute)

	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Equal(t, 2, inner.calls)
}
