package memory

import (
	"context"
	"fmt"
	"slices"

	"company-news/internal/domain/news"
	"company-news/internal/search"
)

type ArticleRepository struct {
	s *Store
}

func NewArticleRepository(s *Store) *ArticleRepository {
	return &ArticleRepository{s: s}
}

func (r *ArticleRepository) snapshot() []news.Article {
	out := make([]news.Article, 0, len(r.s.articles))
	for _, a := range r.s.articles {
		out = append(out, r.s.hydrate(a))
	}
	return out
}

func (r *ArticleRepository) List(ctx context.Context, q search.Query) ([]news.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	page, _ := search.Apply(r.snapshot(), q)
	return page, nil
}

func (r *ArticleRepository) Count(ctx context.Context, f search.Filter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, total := search.Apply(r.snapshot(), search.Query{Filter: f})
	return total, nil
}

func (r *ArticleRepository) GetActive(ctx context.Context, id string) (news.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.articles[id]
	if !ok || !a.IsActive {
		return news.Article{}, news.ErrNotFound
	}
	return r.s.hydrate(a), nil
}

func (r *ArticleRepository) IncrementViewCount(ctx context.Context, id string) (news.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.articles[id]
	if !ok || !a.IsActive {
		return news.Article{}, news.ErrNotFound
	}
	a.ViewCount++
	r.s.articles[id] = a
	return r.s.hydrate(a), nil
}

func (r *ArticleRepository) Create(ctx context.Context, a news.Article) (news.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.articles[a.ID]; exists {
		return news.Article{}, fmt.Errorf("article %s: %w", a.ID, news.ErrAlreadyExists)
	}

	now := r.s.now()
	a.IsActive = true
	a.CreatedAt = now
	a.UpdatedAt = now
	a.Tags = slices.Clone(a.Tags)
	if a.Category != nil {
		c := *a.Category
		a.Category = &c
	}

	r.s.articles[a.ID] = a
	return r.s.hydrate(a), nil
}

func (r *ArticleRepository) Update(ctx context.Context, a news.Article) (news.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.articles[a.ID]
	if !ok || !cur.IsActive {
		return news.Article{}, news.ErrNotFound
	}

	a.ViewCount = cur.ViewCount
	a.PopularityScore = cur.PopularityScore
	a.IsActive = true
	a.CreatedAt = cur.CreatedAt
	a.UpdatedAt = r.s.now()
	a.Tags = slices.Clone(a.Tags)
	if a.Category != nil {
		c := *a.Category
		a.Category = &c
	}

	r.s.articles[a.ID] = a
	return r.s.hydrate(a), nil
}

func (r *ArticleRepository) Deactivate(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.articles[id]
	if !ok || !a.IsActive {
		return news.ErrNotFound
	}
	a.IsActive = false
	a.UpdatedAt = r.s.now()
	r.s.articles[id] = a
	return nil
}
