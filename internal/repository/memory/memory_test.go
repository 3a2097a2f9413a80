package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"company-news/internal/domain/crawl"
	"company-news/internal/domain/news"
	"company-news/internal/domain/user"
	"company-news/internal/repository"
	"company-news/internal/search"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ repository.ArticleRepository  = (*ArticleRepository)(nil)
	_ repository.TaxonomyRepository = (*TaxonomyRepository)(nil)
	_ repository.CrawlJobRepository = (*CrawlJobRepository)(nil)
	_ user.Repository               = (*UserRepository)(nil)
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seeded(t *testing.T) (*Store, *ArticleRepository, *TaxonomyRepository) {
	t.Helper()
	ctx := context.Background()

	s := NewStore()
	s.SetClock(func() time.Time { return base })
	articles := NewArticleRepository(s)
	taxonomy := NewTaxonomyRepository(s)

	tech, err := taxonomy.CreateCategory(ctx, news.Category{Name: "Tech", Slug: "tech"})
	require.NoError(t, err)
	ai, err := taxonomy.CreateTag(ctx, news.Tag{Name: "AI", Slug: "ai"})
	require.NoError(t, err)

	for i, a := range []news.Article{
		{ID: "test_001", Title: "Samsung unveils chip", CompanyID: "samsung_001", CompanyName: "Samsung Electronics",
			Sentiment: news.SentimentPositive, PopularityScore: 8.5, PublishedAt: base.Add(-1 * time.Hour),
			Category: &tech, Tags: []news.Tag{ai}},
		{ID: "test_002", Title: "LG earnings", CompanyID: "lg_001", CompanyName: "LG Electronics",
			Sentiment: news.SentimentPositive, PopularityScore: 7.2, PublishedAt: base.Add(-2 * time.Hour),
			Category: &tech},
		{ID: "test_003", Title: "Hyundai recall", CompanyID: "hyundai_001", CompanyName: "Hyundai Motor",
			Sentiment: news.SentimentNegative, PopularityScore: 5.0, PublishedAt: base.Add(-3 * time.Hour)},
	} {
		_, err := articles.Create(ctx, a)
		require.NoError(t, err, "article %d", i)
	}
	return s, articles, taxonomy
}

func TestArticleRepository_ListAndCount(t *testing.T) {
	ctx := context.Background()
	_, articles, _ := seeded(t)

	got, err := articles.List(ctx, search.Query{Order: search.OrderLatest, Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "test_002", got[0].ID)
	assert.Equal(t, "test_003", got[1].ID)

	n, err := articles.Count(ctx, search.Filter{CategorySlug: "tech"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestArticleRepository_DuplicateID(t *testing.T) {
	_, articles, _ := seeded(t)

	_, err := articles.Create(context.Background(), news.Article{ID: "test_001", Title: "again", PublishedAt: base})
	assert.ErrorIs(t, err, news.ErrAlreadyExists)
}

func TestArticleRepository_ConcurrentViewIncrements(t *testing.T) {
	ctx := context.Background()
	_, articles, _ := seeded(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := articles.IncrementViewCount(ctx, "test_001")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	a, err := articles.GetActive(ctx, "test_001")
	require.NoError(t, err)
	assert.Equal(t, int64(n), a.ViewCount)
}

func TestArticleRepository_DeactivateHidesArticle(t *testing.T) {
	ctx := context.Background()
	_, articles, _ := seeded(t)

	require.NoError(t, articles.Deactivate(ctx, "test_002"))

	_, err := articles.GetActive(ctx, "test_002")
	assert.ErrorIs(t, err, news.ErrNotFound)
	_, err = articles.IncrementViewCount(ctx, "test_002")
	assert.ErrorIs(t, err, news.ErrNotFound)
	assert.ErrorIs(t, articles.Deactivate(ctx, "test_002"), news.ErrNotFound)

	n, err := articles.Count(ctx, search.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestArticleRepository_UpdateKeepsCounters(t *testing.T) {
	ctx := context.Background()
	_, articles, _ := seeded(t)

	_, err := articles.IncrementViewCount(ctx, "test_003")
	require.NoError(t, err)

	got, err := articles.Update(ctx, news.Article{
		ID: "test_003", Title: "Hyundai recall widened", PublishedAt: base, Sentiment: news.SentimentNeutral,
		PopularityScore: 99, ViewCount: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hyundai recall widened", got.Title)
	assert.Equal(t, int64(1), got.ViewCount)
	assert.Equal(t, 5.0, got.PopularityScore)
}

func TestTaxonomyRepository_DeleteCategoryClearsArticles(t *testing.T) {
	ctx := context.Background()
	_, articles, taxonomy := seeded(t)

	require.NoError(t, taxonomy.DeleteCategory(ctx, "tech"))
	assert.ErrorIs(t, taxonomy.DeleteCategory(ctx, "tech"), news.ErrCategoryNotFound)

	a, err := articles.GetActive(ctx, "test_001")
	require.NoError(t, err)
	assert.Nil(t, a.Category)
	assert.Equal(t, []string{"ai"}, a.TagSlugs())
}

func TestTaxonomyRepository_Tags(t *testing.T) {
	ctx := context.Background()
	_, _, taxonomy := seeded(t)

	_, err := taxonomy.CreateTag(ctx, news.Tag{Name: "EV", Slug: "ev"})
	require.NoError(t, err)
	_, err = taxonomy.CreateTag(ctx, news.Tag{Name: "Other", Slug: "ev"})
	assert.ErrorIs(t, err, news.ErrAlreadyExists)

	tags, err := taxonomy.GetTagsBySlugs(ctx, []string{"ev", "ai"})
	require.NoError(t, err)
	assert.Equal(t, "ev", tags[0].Slug)
	assert.Equal(t, "ai", tags[1].Slug)

	_, err = taxonomy.GetTagsBySlugs(ctx, []string{"nope"})
	assert.ErrorIs(t, err, news.ErrTagNotFound)

	all, err := taxonomy.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "AI", all[0].Name)
}

func TestCrawlJobRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCrawlJobRepository(NewStore())

	job := crawl.NewJob("job_1", "samsung_001", "Samsung", base)
	require.NoError(t, repo.Create(ctx, job))
	assert.ErrorIs(t, repo.Create(ctx, job), crawl.ErrDuplicateJobID)

	_, err := repo.GetByID(ctx, "job_missing")
	assert.ErrorIs(t, err, crawl.ErrNotFound)

	got, err := repo.Mutate(ctx, "job_1", func(j crawl.Job) (crawl.Job, error) {
		return j.Apply(crawl.ProgressReport{Status: crawl.StatusCompleted}, base)
	})
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)

	_, err = repo.Mutate(ctx, "job_1", func(j crawl.Job) (crawl.Job, error) {
		return j.Apply(crawl.ProgressReport{Status: crawl.StatusRunning}, base)
	})
	assert.ErrorIs(t, err, crawl.ErrInvalidTransition)

	stored, err := repo.GetByID(ctx, "job_1")
	require.NoError(t, err)
	assert.Equal(t, crawl.StatusCompleted, stored.Status)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	u := user.User{ID: uuid.New(), Email: "Editor@Example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, user.User{ID: uuid.New(), Email: "editor@example.com"}), user.ErrEmailTaken)

	got, err := repo.GetByEmail(ctx, "EDITOR@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	ok, err := repo.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
