package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"company-news/internal/domain/news"
	"company-news/internal/repository"

	"go.uber.org/zap"
)

const (
	msgInvalidCategory = "Invalid category data"
	msgInvalidTag      = "Invalid tag data"

	MsgCategoryExists = "Category with this name or slug already exists"
	MsgTagExists      = "Tag with this name or slug already exists"
)

type TaxonomyUsecase interface {
	Categories(ctx context.Context) ([]news.Category, error)
	CreateCategory(ctx context.Context, name, slug, description string) (news.Category, error)
	DeleteCategory(ctx context.Context, slug string) error
	Tags(ctx context.Context) ([]news.Tag, error)
	CreateTag(ctx context.Context, name, slug string) (news.Tag, error)
}

type Taxonomy struct {
	repo   repository.TaxonomyRepository
	cache  SearchCache
	logger *zap.Logger
}

func NewTaxonomyUsecase(repo repository.TaxonomyRepository, cache SearchCache, logger *zap.Logger) *Taxonomy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Taxonomy{repo: repo, cache: cache, logger: logger}
}

func (u *Taxonomy) Categories(ctx context.Context) ([]news.Category, error) {
	out, err := u.repo.ListCategories(ctx)
	if err != nil {
		u.logger.Error("list categories failed", zap.Error(err))
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Taxonomy) CreateCategory(ctx context.Context, name, slug, description string) (news.Category, error) {
	v := newValidationError(msgInvalidCategory)
	name = requiredText(v, "name", name, 100)
	slug = slugField(v, "slug", slug)
	maxLen(v, "slug", slug, 100)
	if err := v.Err(); err != nil {
		return news.Category{}, err
	}

	c, err := u.repo.CreateCategory(ctx, news.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(description),
	})
	if err != nil {
		return news.Category{}, u.mapErr(err, MsgCategoryExists)
	}
	return c, nil
}

func (u *Taxonomy) DeleteCategory(ctx context.Context, slug string) error {
	if err := u.repo.DeleteCategory(ctx, strings.TrimSpace(slug)); err != nil {
		return u.mapErr(err, "")
	}
	// Cached search pages may still carry the category.
	invalidateSearch(ctx, u.cache, u.logger)
	return nil
}

func (u *Taxonomy) Tags(ctx context.Context) ([]news.Tag, error) {
	out, err := u.repo.ListTags(ctx)
	if err != nil {
		u.logger.Error("list tags failed", zap.Error(err))
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Taxonomy) CreateTag(ctx context.Context, name, slug string) (news.Tag, error) {
	v := newValidationError(msgInvalidTag)
	name = requiredText(v, "name", name, 50)
	slug = slugField(v, "slug", slug)
	maxLen(v, "slug", slug, 50)
	if err := v.Err(); err != nil {
		return news.Tag{}, err
	}

	t, err := u.repo.CreateTag(ctx, news.Tag{Name: name, Slug: slug})
	if err != nil {
		return news.Tag{}, u.mapErr(err, MsgTagExists)
	}
	return t, nil
}

// mapErr translates storage errors. exists is the message for a name or slug
// clash.
func (u *Taxonomy) mapErr(err error, exists string) error {
	switch {
	case errors.Is(err, news.ErrAlreadyExists):
		return conflict(exists, err)
	case errors.Is(err, news.ErrCategoryNotFound), errors.Is(err, news.ErrTagNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		u.logger.Error("taxonomy storage failed", zap.Error(err))
		return ErrInternal
	}
}

func requiredText(v *ValidationError, field, value string, max int) string {
	value = strings.TrimSpace(value)
	if value == "" {
		v.Add(field, msgRequired)
		return ""
	}
	return maxLen(v, field, value, max)
}
