package matchcache

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, ttl time.Duration) (*RedisCache, *mr.Miniredis) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, "test:match:", ttl), m
}

func TestRedisCache_SetGet(t *testing.T) {
	c, m := newCache(t, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "r1", "j1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, "r1", "j1", 42.5))
	got, ok, err := c.Get(ctx, "r1", "j1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 42.5, got)
	require.True(t, m.Exists("test:match:r1:j1"))

	// pairs are directional
	_, ok, err = c.Get(ctx, "j1", "r1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisCache_Expiry(t *testing.T) {
	c, m := newCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "r1", "j1", 10))
	m.FastForward(2 * time.Minute)
	_, ok, err := c.Get(ctx, "r1", "j1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisCache_CorruptEntryIsMiss(t *testing.T) {
	c, m := newCache(t, time.Minute)
	require.NoError(t, m.Set("test:match:r1:j1", "not json"))

	_, ok, err := c.Get(context.Background(), "r1", "j1")
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, m.Exists("test:match:r1:j1"))
}

func TestRedisCache_Unavailable(t *testing.T) {
	c, m := newCache(t, time.Minute)
	m.Close()

	_, _, err := c.Get(context.Background(), "r1", "j1")
	require.Error(t, err)
}
