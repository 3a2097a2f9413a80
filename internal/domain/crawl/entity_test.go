package crawl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNewJob(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	j := NewJob("job_1", "samsung_001", "Samsung", now)

	assert.Equal(t, StatusPending, j.Status)
	assert.Equal(t, 0, j.Progress)
	assert.Equal(t, CreatedMessage, j.Message)
	assert.Equal(t, now, j.CreatedAt)
	assert.Nil(t, j.StartedAt)
	assert.Nil(t, j.CompletedAt)
}

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusRunning, StatusCompleted, StatusFailed} {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStatus("done")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestJob_ApplyLifecycle(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	j := NewJob("job_1", "c", "C", t0)

	running, err := j.Apply(ProgressReport{Status: StatusRunning, Progress: intPtr(40)}, t0.Add(time.Minute))
	require.NoError(t, err)
	require.NotNil(t, running.StartedAt)
	assert.Equal(t, 40, running.Progress)

	again, err := running.Apply(ProgressReport{Status: StatusRunning, Progress: intPtr(70)}, t0.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, *running.StartedAt, *again.StartedAt, "started_at is stamped once")

	done, err := again.Apply(ProgressReport{Status: StatusCompleted, ArticlesFound: intPtr(12), ArticlesSaved: intPtr(10)}, t0.Add(3*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 100, done.Progress)
	assert.Equal(t, 12, done.ArticlesFound)
	assert.Equal(t, 10, done.ArticlesSaved)
	require.NotNil(t, done.CompletedAt)

	_, err = done.Apply(ProgressReport{Status: StatusRunning}, t0.Add(4*time.Minute))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestStatus_CanTransition(t *testing.T) {
	assert.True(t, StatusPending.CanTransition(StatusFailed))
	assert.False(t, StatusPending.CanTransition(StatusCompleted))
	assert.False(t, StatusPending.CanTransition(StatusPending))
	assert.False(t, StatusFailed.CanTransition(StatusRunning))
}
