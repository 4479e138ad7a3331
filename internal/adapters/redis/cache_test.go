package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "hotel_search/internal/adapters/redis"
	"hotel_search/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	var h domain.Hotel
	ok, err := c.Get(ctx, "hotel:1", &h)
	require.NoError(t, err)
	assert.False(t, ok)

	in := domain.Hotel{ID: 1, Name: "Copacabana Palace", Stars: "5", TotalPrice: 250000, Amenities: []string{"POOL"}}
	require.NoError(t, c.Set(ctx, "hotel:1", in, 60))
	assert.True(t, mr.Exists("test:hotel:1"), "keys carry the prefix")

	ok, err = c.Get(ctx, "hotel:1", &h)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, h)

	require.NoError(t, c.Del(ctx, "hotel:1"))
	ok, err = c.Get(ctx, "hotel:1", &h)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_TTL(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "stats:all", domain.CatalogStats{}, 30))
	assert.Equal(t, 30*time.Second, mr.TTL("test:stats:all"))

	mr.FastForward(31 * time.Second)
	var st domain.CatalogStats
	ok, err := c.Get(ctx, "stats:all", &st)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "forever", 1, 0))
	assert.Zero(t, mr.TTL("test:forever"))
}

func TestCache_UndecodableValueIsAMiss(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, mr.Set("test:hotel:2", "{broken"))

	var h domain.Hotel
	ok, err := c.Get(context.Background(), "hotel:2", &h)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestCache_ServerDown(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	var h domain.Hotel
	ok, err := c.Get(context.Background(), "hotel:1", &h)
	assert.False(t, ok)
	assert.Error(t, err)
}
