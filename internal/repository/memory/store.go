// Package memory holds process-local repositories used by tests and by
// STORAGE_DRIVER=memory. All repositories built from one Store share state.
package memory

import (
	"slices"
	"sync"
	"time"

	"company-news/internal/domain/crawl"
	"company-news/internal/domain/news"
	"company-news/internal/domain/user"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	articles   map[string]news.Article
	categories map[int64]news.Category
	tags       map[int64]news.Tag
	jobs       map[string]crawl.Job
	users      map[uuid.UUID]user.User

	nextCategoryID int64
	nextTagID      int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		articles:   make(map[string]news.Article),
		categories: make(map[int64]news.Category),
		tags:       make(map[int64]news.Tag),
		jobs:       make(map[string]crawl.Job),
		users:      make(map[uuid.UUID]user.User),
		now:        time.Now,
	}
}

// SetClock overrides the timestamp source. Tests only.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// hydrate refreshes the category and tags of a stored article so renames and
// deletions show up on read. Callers hold at least a read lock.
func (s *Store) hydrate(a news.Article) news.Article {
	if a.Category != nil {
		if c, ok := s.categories[a.Category.ID]; ok {
			cc := c
			a.Category = &cc
		} else {
			a.Category = nil
		}
	}

	tags := make([]news.Tag, 0, len(a.Tags))
	for _, t := range a.Tags {
		if cur, ok := s.tags[t.ID]; ok {
			tags = append(tags, cur)
		}
	}
	slices.SortFunc(tags, func(x, y news.Tag) int {
		if x.Name < y.Name {
			return -1
		}
		if x.Name > y.Name {
			return 1
		}
		return 0
	})
	a.Tags = tags
	return a
}
