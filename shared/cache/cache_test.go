package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facility/infras/otel/mocks"
	"facility/shared/cache"
)

func newCache(t *testing.T) (cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, mocks.NewOtel()), server
}

type roomEntry struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

func TestRedisCache_SaveGet(t *testing.T) {
	ctx := context.Background()
	c, server := newCache(t)

	require.NoError(t, c.Save(ctx, "room:get:room-1", roomEntry{Name: "Aurora", Capacity: 8}, 60))
	require.NoError(t, c.Save(ctx, "raw", "plain text", 60))

	var entry roomEntry
	require.NoError(t, c.Get(ctx, "room:get:room-1", &entry))
	assert.Equal(t, roomEntry{Name: "Aurora", Capacity: 8}, entry)

	var raw string
	require.NoError(t, c.Get(ctx, "raw", &raw))
	assert.Equal(t, "plain text", raw)

	assert.Equal(t, 60*time.Second, server.TTL("raw"))

	err := c.Get(ctx, "room:get:missing", &entry)
	assert.ErrorIs(t, err, cache.Nil)
}

func TestRedisCache_Incr(t *testing.T) {
	ctx := context.Background()
	c, server := newCache(t)

	for want := int64(1); want <= 3; want++ {
		count, err := c.Incr(ctx, "limiter:client", 30)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	assert.Equal(t, 30*time.Second, server.TTL("limiter:client"))

	server.FastForward(31 * time.Second)

	count, err := c.Incr(ctx, "limiter:client", 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRedisCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, server := newCache(t)

	for _, key := range []string{"room:gets:a", "room:gets:b", "room:count:a", "reservation:x"} {
		require.NoError(t, c.Save(ctx, key, "v", 60))
	}

	require.NoError(t, c.Clear(ctx, "room:*"))

	assert.False(t, server.Exists("room:gets:a"))
	assert.False(t, server.Exists("room:count:a"))
	assert.True(t, server.Exists("reservation:x"))

	require.NoError(t, c.Delete(ctx, "reservation:x"))
	assert.False(t, server.Exists("reservation:x"))
}

func TestRedisCache_SaveIfGeneration(t *testing.T) {
	ctx := context.Background()
	c, server := newCache(t)

	gen, err := c.Generation(ctx, "room:gen:room-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	saved, err := c.SaveIfGeneration(ctx, "room:get:room-1", roomEntry{Name: "Aurora", Capacity: 8}, 60, "room:gen:room-1", gen)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, 60*time.Second, server.TTL("room:get:room-1"))

	// a write lands between the load and the fill
	_, err = c.Incr(ctx, "room:gen:room-1", 60)
	require.NoError(t, err)
	require.NoError(t, c.Delete(ctx, "room:get:room-1"))

	saved, err = c.SaveIfGeneration(ctx, "room:get:room-1", roomEntry{Name: "Aurora", Capacity: 8}, 60, "room:gen:room-1", gen)
	require.NoError(t, err)
	assert.False(t, saved)
	assert.False(t, server.Exists("room:get:room-1"))

	gen, err = c.Generation(ctx, "room:gen:room-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	saved, err = c.SaveIfGeneration(ctx, "room:get:room-1", roomEntry{Name: "Aurora", Capacity: 12}, 60, "room:gen:room-1", gen)
	require.NoError(t, err)
	assert.True(t, saved)

	var entry roomEntry
	require.NoError(t, c.Get(ctx, "room:get:room-1", &entry))
	assert.Equal(t, 12, entry.Capacity)
}
