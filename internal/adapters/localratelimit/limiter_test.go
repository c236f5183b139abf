package localratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/studyhall-api/internal/testutil"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorContains(t, err, "limit must be positive")

	_, err = New(Options{Limit: -1})
	assert.ErrorContains(t, err, "limit must be positive")
}

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	limiter, err := New(Options{Limit: 3, Window: time.Minute,
		Now: testutil.FixedTimeFunc(testutil.TestTime())})
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, allowErr := limiter.Allow(ctx, "user@example.com")
		require.NoError(t, allowErr)
		assert.True(t, ok, "attempt %d should be allowed", i+1)
	}

	ok, err := limiter.Allow(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	limiter, err := New(Options{Limit: 1, Window: time.Minute,
		Now: testutil.FixedTimeFunc(testutil.TestTime())})
	require.NoError(t, err)

	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = limiter.Allow(ctx, "b@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_KeyIsCaseInsensitive(t *testing.T) {
	limiter, err := New(Options{Limit: 1, Window: time.Minute,
		Now: testutil.FixedTimeFunc(testutil.TestTime())})
	require.NoError(t, err)

	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "User@Example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLimiter_RefillsOverTime(t *testing.T) {
	now := testutil.TestTime()
	limiter, err := New(Options{Limit: 2, Window: time.Minute,
		Now: func() time.Time { return now }})
	require.NoError(t, err)

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, allowErr := limiter.Allow(ctx, "refill@example.com")
		require.NoError(t, allowErr)
		require.True(t, ok)
	}

	ok, err := limiter.Allow(ctx, "refill@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	// One full window later both tokens are back.
	now = now.Add(time.Minute)

	ok, err = limiter.Allow(ctx, "refill@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_SweepsIdleBuckets(t *testing.T) {
	now := testutil.TestTime()
	limiter, err := New(Options{Limit: 1, Window: time.Minute,
		Now: func() time.Time { return now }})
	require.NoError(t, err)

	ctx := context.Background()

	_, err = limiter.Allow(ctx, "idle@example.com")
	require.NoError(t, err)

	// Past the sweep horizon the bucket is dropped on the next call.
	now = now.Add(3 * time.Minute)

	_, err = limiter.Allow(ctx, "other@example.com")
	require.NoError(t, err)

	limiter.mu.Lock()
	_, kept := limiter.buckets["idle@example.com"]
	limiter.mu.Unlock()
	assert.False(t, kept)
}

func TestLimiter_ConcurrentAccess(t *testing.T) {
	limiter, err := New(Options{Limit: 100, Window: time.Minute})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, _ = limiter.Allow(context.Background(), "concurrent@example.com")
			}
		}()
	}
	wg.Wait()

	// 200 attempts against a budget of 100: the next one must fail.
	ok, err := limiter.Allow(context.Background(), "concurrent@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLimiter_EmptyKeyAlwaysAllowed(t *testing.T) {
	limiter, err := New(Options{Limit: 1})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		ok, allowErr := limiter.Allow(context.Background(), "")
		require.NoError(t, allowErr)
		assert.True(t, ok)
	}
}
