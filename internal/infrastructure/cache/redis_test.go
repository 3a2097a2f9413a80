package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	IDs   []string `json:"ids"`
	Total int      `json:"total"`
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewRedis(rdb, 30*time.Second, nil)
}

func TestRedis_JSONRoundTripWithTTL(t *testing.T) {
	mr, c := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "news:search:abc", payload{IDs: []string{"test_001"}, Total: 1}, 0))
	assert.Equal(t, 30*time.Second, mr.TTL("news:search:abc"))

	var got payload
	hit, err := c.GetJSON(ctx, "news:search:abc", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, got.Total)

	mr.FastForward(31 * time.Second)
	hit, err = c.GetJSON(ctx, "news:search:abc", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedis_DeleteByPattern(t *testing.T) {
	mr, c := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "news:search:1", payload{}, 0))
	require.NoError(t, c.SetJSON(ctx, "news:search:2", payload{}, 0))
	require.NoError(t, mr.Set("other", "x"))

	require.NoError(t, c.DeleteByPattern(ctx, "news:search:*"))
	assert.False(t, mr.Exists("news:search:1"))
	assert.False(t, mr.Exists("news:search:2"))
	assert.True(t, mr.Exists("other"))
}

func TestRedis_NilClientBypasses(t *testing.T) {
	c := NewRedis(nil, 0, nil)
	ctx := context.Background()

	var out payload
	hit, err := c.GetJSON(ctx, "k", &out)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.SetJSON(ctx, "k", out, 0))
	assert.NoError(t, c.DeleteByPattern(ctx, "*"))
	assert.ErrorIs(t, c.Ping(ctx), ErrUnavailable)
}
