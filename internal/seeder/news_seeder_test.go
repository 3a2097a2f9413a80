package seeder

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"company-news/internal/domain/news"
	"company-news/internal/repository/memory"
	"company-news/internal/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeeder(count int) (NewsSeeder, *memory.ArticleRepository, *memory.TaxonomyRepository) {
	store := memory.NewStore()
	articles := memory.NewArticleRepository(store)
	taxonomy := memory.NewTaxonomyRepository(store)
	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return NewsSeeder{
		Articles: articles,
		Taxonomy: taxonomy,
		Count:    count,
		Now:      func() time.Time { return fixed },
		Rand:     rand.New(rand.NewPCG(1, 2)),
	}, articles, taxonomy
}

func TestNewsSeeder_Run(t *testing.T) {
	s, articles, taxonomy := newSeeder(7)
	ctx := context.Background()

	res, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Categories: 4, Tags: 8, Articles: 7}, res)

	cats, err := taxonomy.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 4)

	a, err := articles.GetActive(ctx, "news_20260314_0000")
	require.NoError(t, err)
	assert.Equal(t, "samsung_001", a.CompanyID)
	assert.Equal(t, news.SentimentPositive, a.Sentiment)
	require.NotNil(t, a.Category)
	assert.Equal(t, "tech", a.Category.Slug)
	assert.ElementsMatch(t, []string{"ai", "samsung", "semiconductor"}, a.TagSlugs())
	assert.GreaterOrEqual(t, a.PopularityScore, 0.1)
	assert.LessOrEqual(t, a.PopularityScore, 10.0)
	assert.True(t, a.PublishedAt.Before(time.Date(2026, 3, 14, 9, 0, 1, 0, time.UTC)))

	sixth, err := articles.GetActive(ctx, "news_20260314_0005")
	require.NoError(t, err)
	assert.Equal(t, "samsung_001", sixth.CompanyID)
	assert.Contains(t, sixth.Title, "(6)")
}

func TestNewsSeeder_RerunIsIdempotent(t *testing.T) {
	s, articles, _ := newSeeder(5)
	ctx := context.Background()

	_, err := s.Run(ctx)
	require.NoError(t, err)

	res, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	n, err := articles.Count(ctx, search.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestNewsSeeder_DefaultCount(t *testing.T) {
	s, _, _ := newSeeder(0)

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultCount, res.Articles)
}
