package repository

import (
	"context"
	"errors"
	"fmt"

	"company-news/internal/database"
	"company-news/internal/domain/crawl"
)

type CrawlJobRepository interface {
	// Create inserts j. A taken job id yields crawl.ErrDuplicateJobID.
	Create(ctx context.Context, j crawl.Job) error
	GetByID(ctx context.Context, jobID string) (crawl.Job, error)
	// Mutate loads the job, applies fn and persists the result atomically.
	Mutate(ctx context.Context, jobID string, fn func(crawl.Job) (crawl.Job, error)) (crawl.Job, error)
}

const crawlJobColumns = `job_id, company_id, company_name, status, progress, message,
	articles_found, articles_saved, created_at, started_at, completed_at`

type PostgresCrawlJobRepository struct {
	db database.DB
}

func NewPostgresCrawlJobRepository(db database.DB) *PostgresCrawlJobRepository {
	return &PostgresCrawlJobRepository{db: db}
}

func (r *PostgresCrawlJobRepository) Create(ctx context.Context, j crawl.Job) error {
	n, err := r.db.Exec(ctx,
		`INSERT INTO crawl_jobs (`+crawlJobColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (job_id) DO NOTHING`,
		j.JobID, j.CompanyID, j.CompanyName, string(j.Status), j.Progress, j.Message,
		j.ArticlesFound, j.ArticlesSaved, j.CreatedAt.UTC(), j.StartedAt, j.CompletedAt,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", crawl.ErrDuplicateJobID, j.JobID)
	}
	return nil
}

func (r *PostgresCrawlJobRepository) GetByID(ctx context.Context, jobID string) (crawl.Job, error) {
	return getCrawlJob(ctx, r.db, `SELECT `+crawlJobColumns+` FROM crawl_jobs WHERE job_id = $1`, jobID)
}

func (r *PostgresCrawlJobRepository) Mutate(ctx context.Context, jobID string, fn func(crawl.Job) (crawl.Job, error)) (crawl.Job, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return crawl.Job{}, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	cur, err := getCrawlJob(ctx, tx,
		`SELECT `+crawlJobColumns+` FROM crawl_jobs WHERE job_id = $1 FOR UPDATE`,
		jobID,
	)
	if err != nil {
		return crawl.Job{}, err
	}

	next, err := fn(cur)
	if err != nil {
		return crawl.Job{}, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE crawl_jobs SET
			status = $2, progress = $3, message = $4, articles_found = $5,
			articles_saved = $6, started_at = $7, completed_at = $8
		 WHERE job_id = $1`,
		jobID, string(next.Status), next.Progress, next.Message, next.ArticlesFound,
		next.ArticlesSaved, next.StartedAt, next.CompletedAt,
	)
	if err != nil {
		return crawl.Job{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return crawl.Job{}, err
	}
	return next, nil
}

func getCrawlJob(ctx context.Context, q database.Querier, query string, jobID string) (crawl.Job, error) {
	var (
		j      crawl.Job
		status string
	)
	err := q.QueryRow(ctx, query, jobID).Scan(
		&j.JobID, &j.CompanyID, &j.CompanyName, &status, &j.Progress, &j.Message,
		&j.ArticlesFound, &j.ArticlesSaved, &j.CreatedAt, &j.StartedAt, &j.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return crawl.Job{}, crawl.ErrNotFound
		}
		return crawl.Job{}, err
	}
	j.Status = crawl.Status(status)
	return j, nil
}
