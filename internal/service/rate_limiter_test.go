package service

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/prperemyshlev/user-service/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newRedisLimiter(t *testing.T) *RateLimiter {
	t.Helper()
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION is not set")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "docker.io/redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb, err := database.NewRedis(ctx, database.RedisOptions{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRateLimiter(rdb)
}

func TestRateLimiter_WindowAndRetryAfter(t *testing.T) {
	limiter := newRedisLimiter(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	remaining, err := limiter.Allow(ctx, "login:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	now = now.Add(20 * time.Second)
	remaining, err = limiter.Allow(ctx, "login:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = limiter.Allow(ctx, "login:10.0.0.1", 2, time.Minute)
	require.ErrorIs(t, err, ErrRateLimitExceeded)
	var rlErr *RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, 40*time.Second, rlErr.RetryAfter)

	now = now.Add(41 * time.Second)
	_, err = limiter.Allow(ctx, "login:10.0.0.1", 2, time.Minute)
	assert.NoError(t, err)
}

func TestRateLimiter_ConcurrentHitsNeverExceedLimit(t *testing.T) {
	limiter := newRedisLimiter(t)
	ctx := context.Background()

	const limit, workers = 5, 40
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := limiter.Allow(ctx, "register:10.0.0.2", limit, time.Minute); err == nil {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, allowed)
}
