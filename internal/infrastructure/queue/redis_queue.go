// Package queue hands crawl jobs to the external crawl worker.
package queue

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// CrawlKey is the list the crawl worker pops job ids from.
const CrawlKey = "crawl:queue"

var ErrUnavailable = errors.New("queue unavailable")

type RedisQueue struct {
	client *redis.Client
	key    string
}

func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = CrawlKey
	}
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) Enqueue(ctx context.Context, jobID string) error {
	if q == nil || q.client == nil {
		return ErrUnavailable
	}
	return q.client.LPush(ctx, q.key, jobID).Err()
}

// Depth is the number of job ids waiting for a worker.
func (q *RedisQueue) Depth(ctx context.Context) (int64, error) {
	if q == nil || q.client == nil {
		return 0, ErrUnavailable
	}
	return q.client.LLen(ctx, q.key).Result()
}
