package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"company-news/internal/database"
	"company-news/internal/domain/news"
	"company-news/internal/search"

	sq "github.com/Masterminds/squirrel"
)

type ArticleRepository interface {
	List(ctx context.Context, q search.Query) ([]news.Article, error)
	Count(ctx context.Context, f search.Filter) (int, error)
	GetActive(ctx context.Context, id string) (news.Article, error)
	// IncrementViewCount bumps view_count by one in a single storage-level
	// update and returns the refreshed article.
	IncrementViewCount(ctx context.Context, id string) (news.Article, error)
	Create(ctx context.Context, a news.Article) (news.Article, error)
	Update(ctx context.Context, a news.Article) (news.Article, error)
	Deactivate(ctx context.Context, id string) error
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const articleColumns = `a.id, a.title, a.summary, a.content, a.url, a.published_at, a.source, a.author,
	a.company_id, a.company_name, a.sentiment, a.view_count, a.popularity_score, a.is_active,
	a.created_at, a.updated_at,
	c.id, c.name, c.slug, c.description, c.created_at`

const articleFrom = `news_articles a LEFT JOIN news_categories c ON c.id = a.category_id`

type PostgresArticleRepository struct {
	db database.DB
}

func NewPostgresArticleRepository(db database.DB) *PostgresArticleRepository {
	return &PostgresArticleRepository{db: db}
}

// BuildListQuery renders q as a single SELECT. Exported for tests.
func BuildListQuery(q search.Query) (string, []any, error) {
	b := psql.Select(articleColumns).From(articleFrom)
	b = applyFilter(b, q.Filter)
	b = applyOrder(b, q.Order, q.Filter.Query)
	if q.Limit > 0 {
		b = b.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		b = b.Offset(uint64(q.Offset))
	}
	return b.ToSql()
}

// BuildCountQuery renders the pre-pagination count for f.
func BuildCountQuery(f search.Filter) (string, []any, error) {
	b := psql.Select("COUNT(1)").From(articleFrom)
	return applyFilter(b, f).ToSql()
}

func applyFilter(b sq.SelectBuilder, f search.Filter) sq.SelectBuilder {
	b = b.Where(sq.Eq{"a.is_active": true})

	if f.Query != "" {
		pattern := "%" + escapeLike(f.Query) + "%"
		b = b.Where(sq.Or{
			sq.Like{"a.search_vector": "%" + escapeLike(strings.ToLower(f.Query)) + "%"},
			sq.ILike{"a.title": pattern},
			sq.ILike{"a.summary": pattern},
			sq.ILike{"a.company_name": pattern},
		})
	}
	if f.CompanyID != "" {
		b = b.Where(sq.Eq{"a.company_id": f.CompanyID})
	}
	if f.Sentiment != "" {
		b = b.Where(sq.Eq{"a.sentiment": string(f.Sentiment)})
	}
	if f.CategorySlug != "" {
		b = b.Where(sq.Eq{"c.slug": f.CategorySlug})
	}
	if f.PublishedFrom != nil {
		b = b.Where(sq.GtOrEq{"a.published_at": *f.PublishedFrom})
	}
	if f.PublishedTo != nil {
		b = b.Where(sq.LtOrEq{"a.published_at": *f.PublishedTo})
	}
	return b
}

func applyOrder(b sq.SelectBuilder, o search.Order, query string) sq.SelectBuilder {
	switch o {
	case search.OrderRelevance:
		expr, args := relevanceExpr(search.Terms(query))
		if expr != "" {
			b = b.OrderByClause(expr+" DESC", args...)
		}
		return b.OrderBy("a.popularity_score DESC", "a.published_at DESC", "a.id ASC")
	case search.OrderPopularity:
		return b.OrderBy("a.popularity_score DESC", "a.published_at DESC", "a.id ASC")
	default:
		return b.OrderBy("a.published_at DESC", "a.id ASC")
	}
}

// relevanceExpr mirrors search.Relevance in SQL.
func relevanceExpr(terms []string) (string, []any) {
	if len(terms) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(terms)*3)
	args := make([]any, 0, len(terms)*3)
	for _, t := range terms {
		p := "%" + escapeLike(t) + "%"
		parts = append(parts,
			"CASE WHEN lower(a.title) LIKE ? THEN 3 ELSE 0 END",
			"CASE WHEN lower(a.summary) LIKE ? THEN 1 ELSE 0 END",
			"CASE WHEN lower(a.company_name) LIKE ? THEN 1 ELSE 0 END",
		)
		args = append(args, p, p, p)
	}
	return "LEAST(10, " + strings.Join(parts, " + ") + ")", args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (r *PostgresArticleRepository) List(ctx context.Context, q search.Query) ([]news.Article, error) {
	query, args, err := BuildListQuery(q)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]news.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachTags(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresArticleRepository) Count(ctx context.Context, f search.Filter) (int, error) {
	query, args, err := BuildCountQuery(f)
	if err != nil {
		return 0, err
	}
	var c int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresArticleRepository) GetActive(ctx context.Context, id string) (news.Article, error) {
	return getActive(ctx, r.db, id)
}

func getActive(ctx context.Context, q database.Querier, id string) (news.Article, error) {
	row := q.QueryRow(ctx,
		`SELECT `+articleColumns+` FROM `+articleFrom+` WHERE a.id = $1 AND a.is_active = true`,
		id,
	)
	a, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return news.Article{}, news.ErrNotFound
		}
		return news.Article{}, err
	}

	arts := []news.Article{a}
	if err := attachTags(ctx, q, arts); err != nil {
		return news.Article{}, err
	}
	return arts[0], nil
}

// incrementViewSQL bumps the counter and reads the row back in one statement,
// so the returned view_count is the value this call wrote.
const incrementViewSQL = `WITH bumped AS (
	UPDATE news_articles SET view_count = view_count + 1
	WHERE id = $1 AND is_active = true
	RETURNING *
)
SELECT ` + articleColumns + `
FROM bumped a LEFT JOIN news_categories c ON c.id = a.category_id`

func (r *PostgresArticleRepository) IncrementViewCount(ctx context.Context, id string) (news.Article, error) {
	a, err := scanArticle(r.db.QueryRow(ctx, incrementViewSQL, id))
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return news.Article{}, news.ErrNotFound
		}
		return news.Article{}, err
	}

	arts := []news.Article{a}
	if err := r.attachTags(ctx, arts); err != nil {
		return news.Article{}, err
	}
	return arts[0], nil
}

func (r *PostgresArticleRepository) Create(ctx context.Context, a news.Article) (news.Article, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return news.Article{}, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO news_articles (
			id, title, summary, content, url, published_at, source, author,
			company_id, company_name, sentiment, category_id, popularity_score,
			view_count, is_active, search_vector
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, true, $15)`,
		a.ID, a.Title, a.Summary, a.Content, a.URL, a.PublishedAt.UTC(), a.Source, a.Author,
		nullIfEmpty(a.CompanyID), a.CompanyName, string(a.Sentiment), categoryID(a.Category), a.PopularityScore,
		a.ViewCount, a.SearchText(),
	)
	if err != nil {
		if errors.Is(err, database.ErrUniqueViolation) {
			return news.Article{}, fmt.Errorf("article %s: %w", a.ID, news.ErrAlreadyExists)
		}
		return news.Article{}, err
	}

	if err := replaceTags(ctx, tx, a.ID, a.Tags); err != nil {
		return news.Article{}, err
	}

	created, err := getActive(ctx, tx, a.ID)
	if err != nil {
		return news.Article{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return news.Article{}, err
	}
	return created, nil
}

func (r *PostgresArticleRepository) Update(ctx context.Context, a news.Article) (news.Article, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return news.Article{}, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	n, err := tx.Exec(ctx,
		`UPDATE news_articles SET
			title = $2, summary = $3, content = $4, url = $5, published_at = $6,
			source = $7, author = $8, company_id = $9, company_name = $10,
			sentiment = $11, category_id = $12, search_vector = $13, updated_at = now()
		 WHERE id = $1 AND is_active = true`,
		a.ID, a.Title, a.Summary, a.Content, a.URL, a.PublishedAt.UTC(),
		a.Source, a.Author, nullIfEmpty(a.CompanyID), a.CompanyName,
		string(a.Sentiment), categoryID(a.Category), a.SearchText(),
	)
	if err != nil {
		return news.Article{}, err
	}
	if n == 0 {
		return news.Article{}, news.ErrNotFound
	}

	if err := replaceTags(ctx, tx, a.ID, a.Tags); err != nil {
		return news.Article{}, err
	}

	updated, err := getActive(ctx, tx, a.ID)
	if err != nil {
		return news.Article{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return news.Article{}, err
	}
	return updated, nil
}

func (r *PostgresArticleRepository) Deactivate(ctx context.Context, id string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE news_articles SET is_active = false, updated_at = now() WHERE id = $1 AND is_active = true`,
		id,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return news.ErrNotFound
	}
	return nil
}

func (r *PostgresArticleRepository) attachTags(ctx context.Context, arts []news.Article) error {
	return attachTags(ctx, r.db, arts)
}

func attachTags(ctx context.Context, q database.Querier, arts []news.Article) error {
	if len(arts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(arts))
	for _, a := range arts {
		ids = append(ids, a.ID)
	}

	rows, err := q.Query(ctx,
		`SELECT at.article_id, t.id, t.name, t.slug
		 FROM news_article_tags at
		 JOIN news_tags t ON t.id = at.tag_id
		 WHERE at.article_id = ANY($1)
		 ORDER BY t.name ASC`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	byArticle := make(map[string][]news.Tag, len(arts))
	for rows.Next() {
		var articleID string
		var t news.Tag
		if err := rows.Scan(&articleID, &t.ID, &t.Name, &t.Slug); err != nil {
			return err
		}
		byArticle[articleID] = append(byArticle[articleID], t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range arts {
		tags := byArticle[arts[i].ID]
		if tags == nil {
			tags = []news.Tag{}
		}
		arts[i].Tags = tags
	}
	return nil
}

func replaceTags(ctx context.Context, tx database.Tx, articleID string, tags []news.Tag) error {
	if _, err := tx.Exec(ctx, `DELETE FROM news_article_tags WHERE article_id = $1`, articleID); err != nil {
		return err
	}
	for _, t := range tags {
		if _, err := tx.Exec(ctx,
			`INSERT INTO news_article_tags (article_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			articleID, t.ID,
		); err != nil {
			return err
		}
	}
	return nil
}

func scanArticle(row database.Row) (news.Article, error) {
	var (
		a         news.Article
		companyID *string
		sentiment string

		catID          *int64
		catName        *string
		catSlug        *string
		catDescription *string
		catCreatedAt   *time.Time
	)
	err := row.Scan(
		&a.ID, &a.Title, &a.Summary, &a.Content, &a.URL, &a.PublishedAt, &a.Source, &a.Author,
		&companyID, &a.CompanyName, &sentiment, &a.ViewCount, &a.PopularityScore, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt,
		&catID, &catName, &catSlug, &catDescription, &catCreatedAt,
	)
	if err != nil {
		return news.Article{}, err
	}

	if companyID != nil {
		a.CompanyID = *companyID
	}
	a.Sentiment = news.Sentiment(sentiment)
	if catID != nil {
		a.Category = &news.Category{
			ID:          *catID,
			Name:        deref(catName),
			Slug:        deref(catSlug),
			Description: deref(catDescription),
		}
		if catCreatedAt != nil {
			a.Category.CreatedAt = *catCreatedAt
		}
	}
	return a, nil
}

func categoryID(c *news.Category) *int64 {
	if c == nil || c.ID == 0 {
		return nil
	}
	id := c.ID
	return &id
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
