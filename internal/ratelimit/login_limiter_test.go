package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLoginLimiter(client, 5, 15*time.Minute), mr
}

func TestLoginLimiter_BlocksAfterMaxFailures(t *testing.T) {
	limiter, mr := newLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Check(ctx, ScopeUser, "jean@test.fr"))
		_, err := limiter.RegisterFailure(ctx, ScopeUser, "jean@test.fr")
		require.NoError(t, err)
	}

	assert.ErrorIs(t, limiter.Check(ctx, ScopeUser, "JEAN@test.fr"), ErrTooManyAttempts)
	assert.True(t, mr.Exists("login_attempts:user:jean@test.fr"))
	assert.Greater(t, limiter.RetryAfter(ctx, ScopeUser, "jean@test.fr"), time.Duration(0))

	// другой scope не затронут
	assert.NoError(t, limiter.Check(ctx, ScopeAdmin, "jean@test.fr"))
}

func TestLoginLimiter_WindowExpires(t *testing.T) {
	limiter, mr := newLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := limiter.RegisterFailure(ctx, ScopeAdmin, "admin@test.fr")
		require.NoError(t, err)
	}
	require.ErrorIs(t, limiter.Check(ctx, ScopeAdmin, "admin@test.fr"), ErrTooManyAttempts)

	mr.FastForward(16 * time.Minute)
	assert.NoError(t, limiter.Check(ctx, ScopeAdmin, "admin@test.fr"))
}

func TestLoginLimiter_ResetOnSuccess(t *testing.T) {
	limiter, _ := newLimiter(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := limiter.RegisterFailure(ctx, ScopeUser, "marie@test.fr")
		require.NoError(t, err)
	}
	require.NoError(t, limiter.Reset(ctx, ScopeUser, "marie@test.fr"))

	attempts, err := limiter.RegisterFailure(ctx, ScopeUser, "marie@test.fr")
	require.NoError(t, err)
	assert.Equal(t, int64(1), attempts)
}
