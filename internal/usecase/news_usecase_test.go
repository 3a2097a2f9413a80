package usecase

import (
	"context"
	"errors"
	"math"
	"strconv"
	"sync"
	"testing"
	"time"

	"company-news/internal/domain/news"
	"company-news/internal/infrastructure/cache"
	"company-news/internal/repository/memory"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

type newsFixture struct {
	store    *memory.Store
	articles *memory.ArticleRepository
	taxonomy *memory.TaxonomyRepository
	mr       *miniredis.Miniredis
	cache    *cache.Redis
}

func newNewsFixture(t *testing.T) newsFixture {
	t.Helper()
	ctx := context.Background()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := memory.NewStore()
	f := newsFixture{
		store:    s,
		articles: memory.NewArticleRepository(s),
		taxonomy: memory.NewTaxonomyRepository(s),
		mr:       mr,
		cache:    cache.NewRedis(rdb, time.Minute, nil),
	}

	tech, err := f.taxonomy.CreateCategory(ctx, news.Category{Name: "Tech", Slug: "tech"})
	require.NoError(t, err)
	_, err = f.taxonomy.CreateTag(ctx, news.Tag{Name: "AI", Slug: "ai"})
	require.NoError(t, err)

	for _, a := range []news.Article{
		{ID: "test_001", Title: "Samsung unveils new product", Summary: "Samsung announced a new product",
			URL: "https://example.com/1", Source: "Tech Daily", CompanyID: "samsung_001", CompanyName: "Samsung Electronics",
			Sentiment: news.SentimentPositive, Category: &tech, PopularityScore: 8.5, PublishedAt: base.Add(-1 * time.Hour)},
		{ID: "test_002", Title: "LG earnings beat", Summary: "LG posted strong results",
			URL: "https://example.com/2", Source: "Economy Times", CompanyID: "lg_001", CompanyName: "LG Electronics",
			Sentiment: news.SentimentPositive, Category: &tech, PopularityScore: 7.2, PublishedAt: base.Add(-2 * time.Hour)},
		{ID: "test_003", Title: "Hyundai recall", Summary: "Hyundai faces an issue",
			URL: "https://example.com/3", Source: "Auto News", CompanyID: "hyundai_001", CompanyName: "Hyundai Motor",
			Sentiment: news.SentimentNegative, PopularityScore: 5.0, PublishedAt: base.Add(-3 * time.Hour)},
	} {
		_, err := f.articles.Create(ctx, a)
		require.NoError(t, err)
	}
	return f
}

func (f newsFixture) usecase(scoring bool) *News {
	return NewNewsUsecase(f.articles, f.taxonomy, f.cache, NewsOptions{RelevanceScoring: scoring}, nil)
}

func articleIDs(l ArticleList) []string {
	out := make([]string, 0, len(l.Articles))
	for _, a := range l.Articles {
		out = append(out, a.ID)
	}
	return out
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	require.ErrorIs(t, err, ErrInvalidInput)
	var v *ValidationError
	require.True(t, errors.As(err, &v))
	return v.Fields
}

func TestNews_LatestUsesCountHeuristic(t *testing.T) {
	uc := newNewsFixture(t).usecase(false)
	ctx := context.Background()

	got, err := uc.Latest(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"test_001", "test_002", "test_003"}, articleIDs(got))
	assert.Equal(t, 3, got.Total)
	// An exact fit still reports more.
	assert.True(t, got.HasNextPage)

	got, err = uc.Latest(ctx, "")
	require.NoError(t, err)
	assert.False(t, got.HasNextPage)

	got, err = uc.Latest(ctx, "500")
	require.NoError(t, err)
	assert.Len(t, got.Articles, 3)

	_, err = uc.Latest(ctx, "0")
	assert.Contains(t, fieldErrors(t, err), "limit")
	_, err = uc.Latest(ctx, "ten")
	assert.Contains(t, fieldErrors(t, err), "limit")
}

func TestNews_TrendingAndCompany(t *testing.T) {
	uc := newNewsFixture(t).usecase(false)
	ctx := context.Background()

	got, err := uc.Trending(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"test_001", "test_002"}, articleIDs(got))
	assert.True(t, got.HasNextPage)

	got, err = uc.ByCompany(ctx, "lg_001", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"test_002"}, articleIDs(got))
	assert.False(t, got.HasNextPage)

	got, err = uc.ByCompany(ctx, "nobody", "")
	require.NoError(t, err)
	assert.Empty(t, got.Articles)
}

func TestNews_BySentiment(t *testing.T) {
	uc := newNewsFixture(t).usecase(false)
	ctx := context.Background()

	got, err := uc.BySentiment(ctx, "positive", "lg_001", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"test_002"}, articleIDs(got))

	_, err = uc.BySentiment(ctx, "invalid", "", "")
	fields := fieldErrors(t, err)
	assert.Equal(t, []string{"Must be positive, negative, or neutral"}, fields["sentiment"])

	_, err = uc.BySentiment(ctx, "", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNews_SearchOffsetPagination(t *testing.T) {
	uc := newNewsFixture(t).usecase(false)

	got, err := uc.Search(context.Background(), SearchParams{SortBy: "popularity", Limit: "2", Offset: "1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"test_002", "test_003"}, articleIDs(got))
	assert.Equal(t, 3, got.Total)
	assert.False(t, got.HasNextPage)
}

func TestNews_SearchHugeOffsetHasNoNextPage(t *testing.T) {
	uc := newNewsFixture(t).usecase(false)

	got, err := uc.Search(context.Background(), SearchParams{Offset: strconv.Itoa(math.MaxInt - 5)})
	require.NoError(t, err)
	assert.Empty(t, got.Articles)
	assert.Equal(t, 3, got.Total)
	assert.False(t, got.HasNextPage)
}

func TestNews_SearchValidation(t *testing.T) {
	uc := newNewsFixture(t).usecase(false)

	_, err := uc.Search(context.Background(), SearchParams{
		Sentiment: "invalid", SortBy: "random", Limit: "101", Offset: "-1", StartDate: "not a date",
	})
	fields := fieldErrors(t, err)
	for _, k := range []string{"sentiment", "sort_by", "limit", "offset", "start_date"} {
		assert.Contains(t, fields, k)
	}
}

func TestNews_SearchRelevanceWithoutQueryIsLatest(t *testing.T) {
	f := newNewsFixture(t)
	ctx := context.Background()
	_, err := f.articles.Create(ctx, news.Article{
		ID: "test_004", Title: "Old but famous", Summary: "x", PopularityScore: 9.9, PublishedAt: base.Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	got, err := f.usecase(false).Search(ctx, SearchParams{SortBy: "relevance"})
	require.NoError(t, err)
	assert.Equal(t, "test_001", got.Articles[0].ID)

	got, err = f.usecase(false).Search(ctx, SearchParams{SortBy: "relevance", Query: "o"})
	require.NoError(t, err)
	assert.Equal(t, "test_004", got.Articles[0].ID)
}

func TestNews_SearchScoredRelevance(t *testing.T) {
	f := newNewsFixture(t)

	got, err := f.usecase(true).Search(context.Background(), SearchParams{SortBy: "relevance", Query: "samsung"})
	require.NoError(t, err)
	assert.Equal(t, []string{"test_001"}, articleIDs(got))
}

func TestNews_SearchIsCachedAndInvalidatedOnWrite(t *testing.T) {
	f := newNewsFixture(t)
	uc := f.usecase(false)
	ctx := context.Background()

	first, err := uc.Search(ctx, SearchParams{Query: "samsung"})
	require.NoError(t, err)
	require.Len(t, f.mr.Keys(), 1)

	// A write behind the usecase's back is hidden by the cache.
	_, err = f.articles.Create(ctx, news.Article{ID: "test_009", Title: "Samsung again", Summary: "s", PublishedAt: base})
	require.NoError(t, err)
	cached, err := uc.Search(ctx, SearchParams{Query: "samsung"})
	require.NoError(t, err)
	assert.Equal(t, first.Total, cached.Total)

	require.NoError(t, uc.Delete(ctx, "test_003"))
	assert.Empty(t, f.mr.Keys())

	fresh, err := uc.Search(ctx, SearchParams{Query: "samsung"})
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Total)
}

func TestNews_ListPages(t *testing.T) {
	uc := newNewsFixture(t).usecase(false)
	ctx := context.Background()

	got, err := uc.List(ctx, ListParams{Limit: "2"})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 3, got.Total)
	assert.True(t, got.HasNextPage)

	got, err = uc.List(ctx, ListParams{Limit: "2", Page: "2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"test_003"}, articleIDs(got))
	assert.False(t, got.HasNextPage)

	_, err = uc.List(ctx, ListParams{Limit: "2", Page: "3"})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = uc.List(ctx, ListParams{SortBy: "relevance", Category: "tech"})
	require.NoError(t, err)
	assert.Equal(t, []string{"test_001", "test_002"}, articleIDs(got))

	_, err = uc.List(ctx, ListParams{Limit: "100", Page: strconv.Itoa(math.MaxInt / 10)})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = uc.List(ctx, ListParams{Page: "0"})
	assert.Contains(t, fieldErrors(t, err), "page")
}

func TestNews_GetCountsViews(t *testing.T) {
	uc := newNewsFixture(t).usecase(false)
	ctx := context.Background()

	a, err := uc.Get(ctx, "test_001")
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ViewCount)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.Get(ctx, "test_001")
		}()
	}
	wg.Wait()

	a, err = uc.Get(ctx, "test_001")
	require.NoError(t, err)
	assert.Equal(t, int64(22), a.ViewCount)

	_, err = uc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNews_CreateUpdatePatchDelete(t *testing.T) {
	uc := newNewsFixture(t).usecase(false)
	ctx := context.Background()

	in := ArticleInput{
		ID:          ptr("art_100"),
		Title:       ptr("SK hynix expands output"),
		Summary:     ptr("Memory demand rises"),
		URL:         ptr("https://example.com/sk"),
		PublishedAt: ptr("2026-03-02T09:00:00Z"),
		Source:      ptr("Daily"),
		CompanyID:   ptr("sk_hynix_001"),
		Category:    ptr("tech"),
		Tags:        &[]string{"ai"},
	}
	created, err := uc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, news.SentimentNeutral, created.Sentiment)
	assert.Equal(t, "tech", created.Category.Slug)
	assert.Equal(t, []string{"ai"}, created.TagSlugs())
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), created.PublishedAt)

	_, err = uc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrConflict)

	patched, err := uc.Patch(ctx, "art_100", ArticleInput{Sentiment: ptr("negative")})
	require.NoError(t, err)
	assert.Equal(t, news.SentimentNegative, patched.Sentiment)
	assert.Equal(t, "SK hynix expands output", patched.Title)
	assert.Equal(t, []string{"ai"}, patched.TagSlugs())

	_, err = uc.Update(ctx, "art_100", ArticleInput{Title: ptr("only a title")})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "summary")
	assert.Contains(t, fields, "published_at")

	require.NoError(t, uc.Delete(ctx, "art_100"))
	assert.ErrorIs(t, uc.Delete(ctx, "art_100"), ErrNotFound)
	_, err = uc.Get(ctx, "art_100")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNews_CreateValidation(t *testing.T) {
	uc := newNewsFixture(t).usecase(false)

	_, err := uc.Create(context.Background(), ArticleInput{
		ID:          ptr("x"),
		Title:       ptr("t"),
		Summary:     ptr("s"),
		URL:         ptr("not a url"),
		PublishedAt: ptr("2026-03-02T09:00:00Z"),
		Source:      ptr("src"),
		Sentiment:   ptr("great"),
		Category:    ptr("sports"),
		Tags:        &[]string{"nope"},
	})
	fields := fieldErrors(t, err)
	for _, k := range []string{"url", "sentiment", "category", "tags"} {
		assert.Contains(t, fields, k)
	}
}
