package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"company-news/internal/domain/crawl"
	"company-news/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgInvalidCrawl  = "Invalid crawl parameters"
	msgInvalidReport = "Invalid crawl progress report"

	// CrawlStartedMessage is returned to the caller that created a job.
	CrawlStartedMessage = "News crawl job started"
	// MsgInvalidCrawlTransition rejects a report against a finished job.
	MsgInvalidCrawlTransition = "Invalid crawl job status transition"

	maxJobIDAttempts = 5
)

type CrawlReportInput struct {
	Status        string
	Progress      *int
	Message       *string
	ArticlesFound *int
	ArticlesSaved *int
}

type CrawlUsecase interface {
	Create(ctx context.Context, companyID string, companyName *string) (crawl.Job, error)
	Status(ctx context.Context, jobID string) (crawl.Job, error)
	Report(ctx context.Context, jobID string, in CrawlReportInput) (crawl.Job, error)
}

type Crawl struct {
	jobs   repository.CrawlJobRepository
	queue  CrawlQueue
	cache  SearchCache
	logger *zap.Logger

	newJobID func() string
	now      func() time.Time
}

func NewCrawlUsecase(jobs repository.CrawlJobRepository, queue CrawlQueue, cache SearchCache, logger *zap.Logger) *Crawl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawl{
		jobs:     jobs,
		queue:    queue,
		cache:    cache,
		logger:   logger,
		newJobID: NewJobID,
		now:      time.Now,
	}
}

// NewJobID returns "job_" followed by 16 hex characters of a random UUID.
func NewJobID() string {
	id := uuid.New()
	return "job_" + strings.ReplaceAll(id.String(), "-", "")[:16]
}

func (u *Crawl) Create(ctx context.Context, companyID string, companyName *string) (crawl.Job, error) {
	v := newValidationError(msgInvalidCrawl)
	companyID = maxLen(v, "company_id", companyID, 100)
	if companyID == "" {
		v.Add("company_id", msgRequired)
	}
	name := "Company " + companyID
	if companyName != nil && strings.TrimSpace(*companyName) != "" {
		name = maxLen(v, "company_name", *companyName, 200)
	}
	if err := v.Err(); err != nil {
		return crawl.Job{}, err
	}

	var job crawl.Job
	for attempt := 1; ; attempt++ {
		job = crawl.NewJob(u.newJobID(), companyID, name, u.now().UTC())
		err := u.jobs.Create(ctx, job)
		if err == nil {
			break
		}
		if errors.Is(err, crawl.ErrDuplicateJobID) && attempt < maxJobIDAttempts {
			u.logger.Warn("crawl job id collision, regenerating", zap.String("job_id", job.JobID))
			continue
		}
		u.logger.Error("create crawl job failed", zap.String("company_id", companyID), zap.Error(err))
		return crawl.Job{}, ErrInternal
	}

	if u.queue != nil {
		if err := u.queue.Enqueue(ctx, job.JobID); err != nil {
			u.logger.Warn("crawl job not queued", zap.String("job_id", job.JobID), zap.Error(err))
		}
	}

	u.logger.Info("crawl job created",
		zap.String("job_id", job.JobID),
		zap.String("company_id", job.CompanyID),
	)
	return job, nil
}

func (u *Crawl) Status(ctx context.Context, jobID string) (crawl.Job, error) {
	j, err := u.jobs.GetByID(ctx, strings.TrimSpace(jobID))
	if err != nil {
		if errors.Is(err, crawl.ErrNotFound) {
			return crawl.Job{}, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		u.logger.Error("load crawl job failed", zap.String("job_id", jobID), zap.Error(err))
		return crawl.Job{}, ErrInternal
	}
	return j, nil
}

func (u *Crawl) Report(ctx context.Context, jobID string, in CrawlReportInput) (crawl.Job, error) {
	r, err := validateReport(in)
	if err != nil {
		return crawl.Job{}, err
	}

	j, err := u.jobs.Mutate(ctx, strings.TrimSpace(jobID), func(cur crawl.Job) (crawl.Job, error) {
		return cur.Apply(r, u.now().UTC())
	})
	switch {
	case errors.Is(err, crawl.ErrNotFound):
		return crawl.Job{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, crawl.ErrInvalidTransition):
		return crawl.Job{}, conflict(MsgInvalidCrawlTransition, err)
	case err != nil:
		u.logger.Error("update crawl job failed", zap.String("job_id", jobID), zap.Error(err))
		return crawl.Job{}, ErrInternal
	}

	u.logger.Info("crawl job progress",
		zap.String("job_id", j.JobID),
		zap.String("status", string(j.Status)),
		zap.Int("progress", j.Progress),
	)
	if j.Status == crawl.StatusCompleted {
		invalidateSearch(ctx, u.cache, u.logger)
	}
	return j, nil
}

func validateReport(in CrawlReportInput) (crawl.ProgressReport, error) {
	v := newValidationError(msgInvalidReport)

	var r crawl.ProgressReport
	if strings.TrimSpace(in.Status) == "" {
		v.Add("status", msgRequired)
	} else if s, err := crawl.ParseStatus(in.Status); err != nil {
		v.Add("status", fmt.Sprintf("%q is not a valid choice.", in.Status))
	} else {
		r.Status = s
	}

	if in.Progress != nil {
		if *in.Progress < 0 {
			v.Add("progress", msgMinValue(0))
		} else if *in.Progress > 100 {
			v.Add("progress", msgMaxValue(100))
		}
	}
	for field, p := range map[string]*int{"articles_found": in.ArticlesFound, "articles_saved": in.ArticlesSaved} {
		if p != nil && *p < 0 {
			v.Add(field, msgMinValue(0))
		}
	}
	if err := v.Err(); err != nil {
		return crawl.ProgressReport{}, err
	}

	r.Progress = in.Progress
	r.Message = in.Message
	r.ArticlesFound = in.ArticlesFound
	r.ArticlesSaved = in.ArticlesSaved
	return r, nil
}
