package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := NewCacheRepository()

	require.NoError(t, cache.Set(ctx, "greeting", []byte("hello"), time.Minute))

	got, err := cache.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	exists, err := cache.Exists(ctx, "greeting")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCacheMiss(t *testing.T) {
	ctx := context.Background()
	cache := NewCacheRepository()

	_, err := cache.Get(ctx, "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)

	exists, err := cache.Exists(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache := NewCacheRepository()

	require.NoError(t, cache.Set(ctx, "ephemeral", []byte("x"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := cache.Get(ctx, "ephemeral")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheDelete(t *testing.T) {
	ctx := context.Background()
	cache := NewCacheRepository()

	require.NoError(t, cache.Set(ctx, "doomed", []byte("x"), time.Minute))
	require.NoError(t, cache.Delete(ctx, "doomed"))

	_, err := cache.Get(ctx, "doomed")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
