package queue

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisQueue_EnqueueIsFIFOForRightPop(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	q := NewRedisQueue(rdb, "")
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "job_a"))
	require.NoError(t, q.Enqueue(ctx, "job_b"))

	depth, err := q.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), depth)

	items, err := mr.List(CrawlKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"job_b", "job_a"}, items)

	first, err := rdb.RPop(ctx, CrawlKey).Result()
	require.NoError(t, err)
	assert.Equal(t, "job_a", first)
}

func TestRedisQueue_NoClient(t *testing.T) {
	q := NewRedisQueue(nil, "")
	assert.ErrorIs(t, q.Enqueue(context.Background(), "job_a"), ErrUnavailable)
	_, err := q.Depth(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
