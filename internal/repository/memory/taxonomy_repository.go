package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"company-news/internal/domain/news"
)

type TaxonomyRepository struct {
	s *Store
}

func NewTaxonomyRepository(s *Store) *TaxonomyRepository {
	return &TaxonomyRepository{s: s}
}

func (r *TaxonomyRepository) ListCategories(ctx context.Context) ([]news.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]news.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b news.Category) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *TaxonomyRepository) GetCategoryBySlug(ctx context.Context, slug string) (news.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return news.Category{}, news.ErrCategoryNotFound
}

func (r *TaxonomyRepository) CreateCategory(ctx context.Context, c news.Category) (news.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, cur := range r.s.categories {
		if cur.Slug == c.Slug || cur.Name == c.Name {
			return news.Category{}, fmt.Errorf("category %s: %w", c.Slug, news.ErrAlreadyExists)
		}
	}

	r.s.nextCategoryID++
	c.ID = r.s.nextCategoryID
	c.CreatedAt = r.s.now()
	r.s.categories[c.ID] = c
	return c, nil
}

func (r *TaxonomyRepository) DeleteCategory(ctx context.Context, slug string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, c := range r.s.categories {
		if c.Slug != slug {
			continue
		}
		delete(r.s.categories, id)
		for aid, a := range r.s.articles {
			if a.Category != nil && a.Category.ID == id {
				a.Category = nil
				r.s.articles[aid] = a
			}
		}
		return nil
	}
	return news.ErrCategoryNotFound
}

func (r *TaxonomyRepository) ListTags(ctx context.Context) ([]news.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]news.Tag, 0, len(r.s.tags))
	for _, t := range r.s.tags {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b news.Tag) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *TaxonomyRepository) GetTagsBySlugs(ctx context.Context, slugs []string) ([]news.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]news.Tag, 0, len(slugs))
	seen := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}

		t, ok := r.tagBySlug(slug)
		if !ok {
			return nil, fmt.Errorf("%w: %s", news.ErrTagNotFound, slug)
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *TaxonomyRepository) tagBySlug(slug string) (news.Tag, bool) {
	for _, t := range r.s.tags {
		if t.Slug == slug {
			return t, true
		}
	}
	return news.Tag{}, false
}

func (r *TaxonomyRepository) CreateTag(ctx context.Context, t news.Tag) (news.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, cur := range r.s.tags {
		if cur.Slug == t.Slug || cur.Name == t.Name {
			return news.Tag{}, fmt.Errorf("tag %s: %w", t.Slug, news.ErrAlreadyExists)
		}
	}

	r.s.nextTagID++
	t.ID = r.s.nextTagID
	r.s.tags[t.ID] = t
	return t, nil
}
