package repository

import (
	"context"
	"errors"
	"fmt"

	"company-news/internal/database"
	"company-news/internal/domain/news"
)

type TaxonomyRepository interface {
	ListCategories(ctx context.Context) ([]news.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (news.Category, error)
	CreateCategory(ctx context.Context, c news.Category) (news.Category, error)
	// DeleteCategory removes the category and clears it from every article
	// that referenced it.
	DeleteCategory(ctx context.Context, slug string) error

	ListTags(ctx context.Context) ([]news.Tag, error)
	// GetTagsBySlugs resolves slugs in input order. Any unknown slug yields
	// news.ErrTagNotFound.
	GetTagsBySlugs(ctx context.Context, slugs []string) ([]news.Tag, error)
	CreateTag(ctx context.Context, t news.Tag) (news.Tag, error)
}

type PostgresTaxonomyRepository struct {
	db database.DB
}

func NewPostgresTaxonomyRepository(db database.DB) *PostgresTaxonomyRepository {
	return &PostgresTaxonomyRepository{db: db}
}

func (r *PostgresTaxonomyRepository) ListCategories(ctx context.Context) ([]news.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, slug, description, created_at FROM news_categories ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]news.Category, 0)
	for rows.Next() {
		var c news.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresTaxonomyRepository) GetCategoryBySlug(ctx context.Context, slug string) (news.Category, error) {
	var c news.Category
	err := r.db.QueryRow(ctx,
		`SELECT id, name, slug, description, created_at FROM news_categories WHERE slug = $1`,
		slug,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return news.Category{}, news.ErrCategoryNotFound
		}
		return news.Category{}, err
	}
	return c, nil
}

func (r *PostgresTaxonomyRepository) CreateCategory(ctx context.Context, c news.Category) (news.Category, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO news_categories (name, slug, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		c.Name, c.Slug, c.Description,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, database.ErrUniqueViolation) {
			return news.Category{}, fmt.Errorf("category %s: %w", c.Slug, news.ErrAlreadyExists)
		}
		return news.Category{}, err
	}
	return c, nil
}

func (r *PostgresTaxonomyRepository) DeleteCategory(ctx context.Context, slug string) error {
	// news_articles.category_id is ON DELETE SET NULL.
	n, err := r.db.Exec(ctx, `DELETE FROM news_categories WHERE slug = $1`, slug)
	if err != nil {
		return err
	}
	if n == 0 {
		return news.ErrCategoryNotFound
	}
	return nil
}

func (r *PostgresTaxonomyRepository) ListTags(ctx context.Context) ([]news.Tag, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug FROM news_tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]news.Tag, 0)
	for rows.Next() {
		var t news.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PostgresTaxonomyRepository) GetTagsBySlugs(ctx context.Context, slugs []string) ([]news.Tag, error) {
	if len(slugs) == 0 {
		return []news.Tag{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name, slug FROM news_tags WHERE slug = ANY($1)`,
		slugs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bySlug := make(map[string]news.Tag, len(slugs))
	for rows.Next() {
		var t news.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, err
		}
		bySlug[t.Slug] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orderTags(slugs, bySlug)
}

func (r *PostgresTaxonomyRepository) CreateTag(ctx context.Context, t news.Tag) (news.Tag, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO news_tags (name, slug) VALUES ($1, $2) RETURNING id`,
		t.Name, t.Slug,
	).Scan(&t.ID)
	if err != nil {
		if errors.Is(err, database.ErrUniqueViolation) {
			return news.Tag{}, fmt.Errorf("tag %s: %w", t.Slug, news.ErrAlreadyExists)
		}
		return news.Tag{}, err
	}
	return t, nil
}

// orderTags returns the tags for slugs, deduplicated, in first-seen order.
func orderTags(slugs []string, bySlug map[string]news.Tag) ([]news.Tag, error) {
	out := make([]news.Tag, 0, len(slugs))
	seen := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}

		t, ok := bySlug[s]
		if !ok {
			return nil, fmt.Errorf("%w: %s", news.ErrTagNotFound, s)
		}
		out = append(out, t)
	}
	return out, nil
}
