package crawl

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound          = errors.New("crawl job not found")
	ErrDuplicateJobID    = errors.New("crawl job id already exists")
	ErrInvalidStatus     = errors.New("invalid crawl job status")
	ErrInvalidTransition = errors.New("invalid crawl job status transition")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

const CreatedMessage = "Crawl job created"

func ParseStatus(s string) (Status, error) {
	switch Status(strings.TrimSpace(s)) {
	case StatusPending:
		return StatusPending, nil
	case StatusRunning:
		return StatusRunning, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusFailed:
		return StatusFailed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether an external worker may move a job from s to
// next. Running may be re-reported to update progress.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusRunning || next == StatusFailed
	case StatusRunning:
		return next == StatusRunning || next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

type Job struct {
	JobID         string
	CompanyID     string
	CompanyName   string
	Status        Status
	Progress      int
	Message       string
	ArticlesFound int
	ArticlesSaved int
	CreatedAt     time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
}

func NewJob(jobID, companyID, companyName string, now time.Time) Job {
	return Job{
		JobID:       jobID,
		CompanyID:   companyID,
		CompanyName: companyName,
		Status:      StatusPending,
		Progress:    0,
		Message:     CreatedMessage,
		CreatedAt:   now,
	}
}

type ProgressReport struct {
	Status        Status
	Progress      *int
	Message       *string
	ArticlesFound *int
	ArticlesSaved *int
}

// Apply returns the job after the report, or ErrInvalidTransition.
func (j Job) Apply(r ProgressReport, now time.Time) (Job, error) {
	if !j.Status.CanTransition(r.Status) {
		return Job{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, r.Status)
	}

	out := j
	out.Status = r.Status
	if r.Progress != nil {
		out.Progress = *r.Progress
	}
	if r.Message != nil {
		out.Message = *r.Message
	}
	if r.ArticlesFound != nil {
		out.ArticlesFound = *r.ArticlesFound
	}
	if r.ArticlesSaved != nil {
		out.ArticlesSaved = *r.ArticlesSaved
	}

	if r.Status == StatusRunning && out.StartedAt == nil {
		t := now
		out.StartedAt = &t
	}
	if r.Status.Terminal() {
		t := now
		out.CompletedAt = &t
	}
	if r.Status == StatusCompleted {
		out.Progress = 100
	}
	return out, nil
}
