package usecase

import (
	"context"
	"time"
)

type SearchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CrawlQueue hands new crawl jobs to the external worker.
type CrawlQueue interface {
	Enqueue(ctx context.Context, jobID string) error
}
