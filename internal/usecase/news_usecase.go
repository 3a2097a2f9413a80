package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"company-news/internal/domain/news"
	"company-news/internal/repository"
	"company-news/internal/search"

	"go.uber.org/zap"
)

const (
	msgInvalidParams    = "Invalid parameters"
	msgInvalidSearch    = "Invalid search parameters"
	msgInvalidSentiment = "Invalid sentiment parameter"
	msgInvalidArticle   = "Invalid article data"

	MsgArticleExists = "Article with this id already exists"
)

// ArticleList is one page of articles. Page is set by List only.
type ArticleList struct {
	Articles    []news.Article `json:"articles"`
	Total       int            `json:"total"`
	HasNextPage bool           `json:"hasNextPage"`
	Page        int            `json:"page,omitempty"`
}

type SearchParams struct {
	Query     string
	CompanyID string
	Sentiment string
	Category  string
	StartDate string
	EndDate   string
	SortBy    string
	Limit     string
	Offset    string
}

type ListParams struct {
	CompanyID string
	Sentiment string
	Category  string
	StartDate string
	EndDate   string
	SortBy    string
	Page      string
	Limit     string
}

// ArticleInput is a create/update body. Nil means "not supplied".
type ArticleInput struct {
	ID          *string
	Title       *string
	Summary     *string
	Content     *string
	URL         *string
	PublishedAt *string
	Source      *string
	Author      *string
	CompanyID   *string
	CompanyName *string
	Sentiment   *string
	Category    *string
	Tags        *[]string
}

type NewsUsecase interface {
	Latest(ctx context.Context, limit string) (ArticleList, error)
	ByCompany(ctx context.Context, companyID, limit string) (ArticleList, error)
	Trending(ctx context.Context, limit string) (ArticleList, error)
	BySentiment(ctx context.Context, sentiment, companyID, limit string) (ArticleList, error)
	Search(ctx context.Context, p SearchParams) (ArticleList, error)

	List(ctx context.Context, p ListParams) (ArticleList, error)
	Get(ctx context.Context, id string) (news.Article, error)
	Create(ctx context.Context, in ArticleInput) (news.Article, error)
	Update(ctx context.Context, id string, in ArticleInput) (news.Article, error)
	Patch(ctx context.Context, id string, in ArticleInput) (news.Article, error)
	Delete(ctx context.Context, id string) error
}

type NewsOptions struct {
	// RelevanceScoring turns sort_by=relevance into text-scored ordering on
	// the search endpoint.
	RelevanceScoring bool
	CacheTTL         time.Duration
}

type News struct {
	articles repository.ArticleRepository
	taxonomy repository.TaxonomyRepository
	cache    SearchCache
	opts     NewsOptions
	logger   *zap.Logger
}

func NewNewsUsecase(articles repository.ArticleRepository, taxonomy repository.TaxonomyRepository, cache SearchCache, opts NewsOptions, logger *zap.Logger) *News {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &News{articles: articles, taxonomy: taxonomy, cache: cache, opts: opts, logger: logger}
}

func limitOnly(v *ValidationError, raw string, def int) int {
	return search.ClampLimit(boundedInt(v, "limit", raw, def, 1, 0))
}

// firstN runs a limit-only read. total is the page size, not the match count.
func (u *News) firstN(ctx context.Context, f search.Filter, o search.Order, limit int) (ArticleList, error) {
	rows, err := u.articles.List(ctx, search.Query{Filter: f, Order: o, Limit: limit})
	if err != nil {
		u.logger.Error("list articles failed", zap.Error(err))
		return ArticleList{}, ErrInternal
	}
	return ArticleList{
		Articles:    rows,
		Total:       len(rows),
		HasNextPage: search.HasMoreByCount(len(rows), limit),
	}, nil
}

func (u *News) Latest(ctx context.Context, limit string) (ArticleList, error) {
	v := newValidationError(msgInvalidParams)
	n := limitOnly(v, limit, search.DefaultLatestLimit)
	if err := v.Err(); err != nil {
		return ArticleList{}, err
	}
	return u.firstN(ctx, search.Filter{}, search.OrderLatest, n)
}

func (u *News) ByCompany(ctx context.Context, companyID, limit string) (ArticleList, error) {
	v := newValidationError(msgInvalidParams)
	companyID = maxLen(v, "company_id", companyID, 100)
	if companyID == "" {
		v.Add("company_id", msgRequired)
	}
	n := limitOnly(v, limit, search.DefaultCompanyLimit)
	if err := v.Err(); err != nil {
		return ArticleList{}, err
	}
	return u.firstN(ctx, search.Filter{CompanyID: companyID}, search.OrderLatest, n)
}

func (u *News) Trending(ctx context.Context, limit string) (ArticleList, error) {
	v := newValidationError(msgInvalidParams)
	n := limitOnly(v, limit, search.DefaultLatestLimit)
	if err := v.Err(); err != nil {
		return ArticleList{}, err
	}
	return u.firstN(ctx, search.Filter{}, search.OrderPopularity, n)
}

func (u *News) BySentiment(ctx context.Context, sentiment, companyID, limit string) (ArticleList, error) {
	s, err := news.ParseSentiment(sentiment)
	if err != nil {
		v := newValidationError(msgInvalidSentiment)
		v.Add("sentiment", "Must be positive, negative, or neutral")
		return ArticleList{}, v
	}

	v := newValidationError(msgInvalidParams)
	companyID = maxLen(v, "companyId", companyID, 100)
	n := limitOnly(v, limit, search.DefaultLatestLimit)
	if err := v.Err(); err != nil {
		return ArticleList{}, err
	}
	return u.firstN(ctx, search.Filter{Sentiment: s, CompanyID: companyID}, search.OrderLatest, n)
}

func parseSortKey(v *ValidationError, raw string) search.SortKey {
	k, err := search.ParseSortKey(strings.TrimSpace(raw))
	if err != nil {
		v.Add("sort_by", fmt.Sprintf("%q is not a valid choice.", raw))
		return search.SortLatest
	}
	return k
}

func filterFields(v *ValidationError, companyID, sentiment, category, start, end string) search.Filter {
	return search.Filter{
		CompanyID:     maxLen(v, "company_id", companyID, 100),
		Sentiment:     sentimentField(v, "sentiment", sentiment),
		CategorySlug:  maxLen(v, "category", category, 100),
		PublishedFrom: dateField(v, "start_date", start),
		PublishedTo:   dateField(v, "end_date", end),
	}
}

func (u *News) Search(ctx context.Context, p SearchParams) (ArticleList, error) {
	v := newValidationError(msgInvalidSearch)
	f := filterFields(v, p.CompanyID, p.Sentiment, p.Category, p.StartDate, p.EndDate)
	f.Query = maxLen(v, "query", p.Query, 200)
	key := parseSortKey(v, p.SortBy)
	limit := boundedInt(v, "limit", p.Limit, search.DefaultSearchLimit, 1, search.MaxLimit)
	offset := boundedInt(v, "offset", p.Offset, 0, 0, 0)
	if err := v.Err(); err != nil {
		return ArticleList{}, err
	}

	q := search.Query{
		Filter: f,
		Order:  search.SearchOrder(key, f.Query, u.opts.RelevanceScoring),
		Limit:  limit,
		Offset: offset,
	}

	cacheKey := SearchCacheKey(q)
	if u.cache != nil {
		var cached ArticleList
		hit, err := u.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && hit {
			u.logger.Debug("search cache hit", zap.String("key", cacheKey))
			return cached, nil
		}
	}

	total, err := u.articles.Count(ctx, f)
	if err != nil {
		u.logger.Error("count articles failed", zap.Error(err))
		return ArticleList{}, ErrInternal
	}
	rows, err := u.articles.List(ctx, q)
	if err != nil {
		u.logger.Error("search articles failed", zap.Error(err))
		return ArticleList{}, ErrInternal
	}

	out := ArticleList{
		Articles:    rows,
		Total:       total,
		HasNextPage: search.HasMoreByOffset(offset, limit, total),
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cacheKey, out, u.opts.CacheTTL); err != nil {
			u.logger.Warn("search cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return out, nil
}

// pageSize follows the CRUD listing rules: blank, malformed or non-positive
// sizes fall back to the default, large ones clamp.
func pageSize(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return search.DefaultPageSize
	}
	return search.ClampLimit(n)
}

func (u *News) List(ctx context.Context, p ListParams) (ArticleList, error) {
	v := newValidationError(msgInvalidParams)
	f := filterFields(v, p.CompanyID, p.Sentiment, p.Category, p.StartDate, p.EndDate)
	key := parseSortKey(v, p.SortBy)
	page := boundedInt(v, "page", p.Page, 1, 1, 0)
	if err := v.Err(); err != nil {
		return ArticleList{}, err
	}
	size := pageSize(p.Limit)

	total, err := u.articles.Count(ctx, f)
	if err != nil {
		u.logger.Error("count articles failed", zap.Error(err))
		return ArticleList{}, ErrInternal
	}
	if search.PastEnd(page, size, total) {
		return ArticleList{}, fmt.Errorf("%w: invalid page", ErrNotFound)
	}

	rows, err := u.articles.List(ctx, search.Query{
		Filter: f,
		Order:  search.ListOrder(key),
		Limit:  size,
		Offset: (page - 1) * size,
	})
	if err != nil {
		u.logger.Error("list articles failed", zap.Error(err))
		return ArticleList{}, ErrInternal
	}

	return ArticleList{
		Articles:    rows,
		Total:       total,
		HasNextPage: search.HasMoreByPage(page, size, total),
		Page:        page,
	}, nil
}

func (u *News) Get(ctx context.Context, id string) (news.Article, error) {
	a, err := u.articles.IncrementViewCount(ctx, strings.TrimSpace(id))
	if err != nil {
		return news.Article{}, u.mapArticleErr(err)
	}
	return a, nil
}

func (u *News) Create(ctx context.Context, in ArticleInput) (news.Article, error) {
	a, err := u.buildArticle(ctx, news.Article{Sentiment: news.SentimentNeutral}, in, true, true)
	if err != nil {
		return news.Article{}, err
	}

	created, err := u.articles.Create(ctx, a)
	if err != nil {
		return news.Article{}, u.mapArticleErr(err)
	}
	u.invalidateSearch(ctx)
	return created, nil
}

func (u *News) Update(ctx context.Context, id string, in ArticleInput) (news.Article, error) {
	return u.update(ctx, id, in, true)
}

func (u *News) Patch(ctx context.Context, id string, in ArticleInput) (news.Article, error) {
	return u.update(ctx, id, in, false)
}

func (u *News) update(ctx context.Context, id string, in ArticleInput, full bool) (news.Article, error) {
	cur, err := u.articles.GetActive(ctx, strings.TrimSpace(id))
	if err != nil {
		return news.Article{}, u.mapArticleErr(err)
	}

	base := cur
	if full {
		// PUT replaces every writable field; omitted optional ones reset.
		base = news.Article{ID: cur.ID, Sentiment: news.SentimentNeutral}
	}
	next, err := u.buildArticle(ctx, base, in, full, false)
	if err != nil {
		return news.Article{}, err
	}
	// The primary key is not writable through the detail route.
	next.ID = cur.ID
	if in.Tags == nil {
		next.Tags = cur.Tags
	}

	updated, err := u.articles.Update(ctx, next)
	if err != nil {
		return news.Article{}, u.mapArticleErr(err)
	}
	u.invalidateSearch(ctx)
	return updated, nil
}

func (u *News) Delete(ctx context.Context, id string) error {
	if err := u.articles.Deactivate(ctx, strings.TrimSpace(id)); err != nil {
		return u.mapArticleErr(err)
	}
	u.invalidateSearch(ctx)
	return nil
}

// buildArticle validates in and applies it on top of base. required makes
// the mandatory fields mandatory; withID accepts the id field.
func (u *News) buildArticle(ctx context.Context, base news.Article, in ArticleInput, required, withID bool) (news.Article, error) {
	v := newValidationError(msgInvalidArticle)
	a := base

	str := func(field string, p *string, max int, mandatory bool, dst *string) {
		if p == nil {
			if mandatory && required {
				v.Add(field, msgRequired)
			}
			return
		}
		s := strings.TrimSpace(*p)
		if mandatory && s == "" {
			v.Add(field, "This field may not be blank.")
			return
		}
		if max > 0 {
			maxLen(v, field, s, max)
		}
		*dst = s
	}

	if withID {
		str("id", in.ID, 100, true, &a.ID)
	}
	str("title", in.Title, 500, true, &a.Title)
	str("summary", in.Summary, 0, true, &a.Summary)
	str("content", in.Content, 0, false, &a.Content)
	str("url", in.URL, 1000, true, &a.URL)
	str("source", in.Source, 200, true, &a.Source)
	str("author", in.Author, 200, false, &a.Author)
	str("company_id", in.CompanyID, 100, false, &a.CompanyID)
	str("company_name", in.CompanyName, 200, false, &a.CompanyName)

	if in.URL != nil && a.URL != "" && !validURL(a.URL) {
		v.Add("url", "Enter a valid URL.")
	}

	if in.PublishedAt == nil {
		if required {
			v.Add("published_at", msgRequired)
		}
	} else if t, ok := parseTime(*in.PublishedAt); !ok || t == nil {
		v.Add("published_at", msgDatetime)
	} else {
		a.PublishedAt = *t
	}

	if in.Sentiment != nil {
		s, err := news.ParseSentiment(*in.Sentiment)
		if err != nil {
			v.Add("sentiment", "Sentiment must be 'positive', 'negative', or 'neutral'")
		} else {
			a.Sentiment = s
		}
	}

	if in.Category != nil {
		slug := strings.TrimSpace(*in.Category)
		if slug == "" {
			a.Category = nil
		} else {
			c, err := u.taxonomy.GetCategoryBySlug(ctx, slug)
			switch {
			case errors.Is(err, news.ErrCategoryNotFound):
				v.Add("category", fmt.Sprintf("Object with slug=%s does not exist.", slug))
			case err != nil:
				u.logger.Error("resolve category failed", zap.Error(err))
				return news.Article{}, ErrInternal
			default:
				a.Category = &c
			}
		}
	}

	if in.Tags != nil {
		tags, err := u.taxonomy.GetTagsBySlugs(ctx, trimAll(*in.Tags))
		switch {
		case errors.Is(err, news.ErrTagNotFound):
			v.Add("tags", err.Error())
		case err != nil:
			u.logger.Error("resolve tags failed", zap.Error(err))
			return news.Article{}, ErrInternal
		default:
			a.Tags = tags
		}
	}

	if err := v.Err(); err != nil {
		return news.Article{}, err
	}
	return a, nil
}

func (u *News) mapArticleErr(err error) error {
	switch {
	case errors.Is(err, news.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, news.ErrAlreadyExists):
		return conflict(MsgArticleExists, err)
	default:
		u.logger.Error("article storage failed", zap.Error(err))
		return ErrInternal
	}
}

func (u *News) invalidateSearch(ctx context.Context) {
	invalidateSearch(ctx, u.cache, u.logger)
}

func invalidateSearch(ctx context.Context, cache SearchCache, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.DeleteByPattern(ctx, searchCachePattern); err != nil {
		logger.Warn("search cache invalidation failed", zap.Error(err))
	}
}

func validURL(raw string) bool {
	p, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (p.Scheme == "http" || p.Scheme == "https") && p.Host != ""
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
