package memory

import (
	"context"
	"fmt"

	"company-news/internal/domain/crawl"
)

type CrawlJobRepository struct {
	s *Store
}

func NewCrawlJobRepository(s *Store) *CrawlJobRepository {
	return &CrawlJobRepository{s: s}
}

func (r *CrawlJobRepository) Create(ctx context.Context, j crawl.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.jobs[j.JobID]; exists {
		return fmt.Errorf("%w: %s", crawl.ErrDuplicateJobID, j.JobID)
	}
	r.s.jobs[j.JobID] = j
	return nil
}

func (r *CrawlJobRepository) GetByID(ctx context.Context, jobID string) (crawl.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	j, ok := r.s.jobs[jobID]
	if !ok {
		return crawl.Job{}, crawl.ErrNotFound
	}
	return j, nil
}

func (r *CrawlJobRepository) Mutate(ctx context.Context, jobID string, fn func(crawl.Job) (crawl.Job, error)) (crawl.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.jobs[jobID]
	if !ok {
		return crawl.Job{}, crawl.ErrNotFound
	}
	next, err := fn(cur)
	if err != nil {
		return crawl.Job{}, err
	}
	r.s.jobs[jobID] = next
	return next, nil
}
