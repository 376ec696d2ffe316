package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gocrawl/internal/domain"
	"github.com/jonesrussell/gocrawl/internal/logger"
	"github.com/jonesrussell/gocrawl/internal/scheduler"
)

type fakeScheduleStore struct {
	active   []*domain.Schedule
	advanced []string
}

func (f *fakeScheduleStore) ListActive(_ context.Context) ([]*domain.Schedule, error) {
	return f.active, nil
}

func (f *fakeScheduleStore) Advance(_ context.Context, id string, _, next time.Time) error {
	f.advanced = append(f.advanced, id)
	for _, s := range f.active {
		if s.ID == id {
			s.NextRunAt = &next
		}
	}
	return nil
}

type fakeJobCreator struct {
	created []*domain.CrawlJob
}

func (f *fakeJobCreator) Create(_ context.Context, job *domain.CrawlJob) error {
	job.ID = "job-1"
	f.created = append(f.created, job)
	return nil
}

type fakeTaskEnqueuer struct {
	enqueued []string
}

func (f *fakeTaskEnqueuer) Enqueue(
	_ context.Context, jobID string, _ int, idempotencyKey *string, _ int,
) (*domain.CrawlTask, error) {
	f.enqueued = append(f.enqueued, jobID)
	return &domain.CrawlTask{ID: "task-1", JobID: jobID, IdempotencyKey: idempotencyKey}, nil
}

func testLogger(t *testing.T) logger.Interface {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: logger.ErrorLevel, Encoding: "console"})
	require.NoError(t, err)
	return log
}

func TestTickFiresDueSchedule(t *testing.T) {
	due := time.Now().Add(-time.Minute)
	schedules := &fakeScheduleStore{
		active: []*domain.Schedule{
			{ID: "sched-1", SiteID: "site-1", CronExpression: "*/5 * * * *", NextRunAt: &due},
		},
	}
	jobs := &fakeJobCreator{}
	queue := &fakeTaskEnqueuer{}

	s := scheduler.New(schedules, jobs, queue, testLogger(t))
	s.Tick(context.Background())

	assert.Len(t, jobs.created, 1)
	assert.Len(t, queue.enqueued, 1)
	assert.Equal(t, []string{"sched-1"}, schedules.advanced)
}

func TestTickSkipsNotYetDueSchedule(t *testing.T) {
	future := time.Now().Add(time.Hour)
	schedules := &fakeScheduleStore{
		active: []*domain.Schedule{
			{ID: "sched-1", SiteID: "site-1", CronExpression: "*/5 * * * *", NextRunAt: &future},
		},
	}
	jobs := &fakeJobCreator{}
	queue := &fakeTaskEnqueuer{}

	s := scheduler.New(schedules, jobs, queue, testLogger(t))
	s.Tick(context.Background())

	assert.Empty(t, jobs.created)
	assert.Empty(t, queue.enqueued)
}

func TestIdempotencyKeyStableForSameInstant(t *testing.T) {
	instant := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	k1 := scheduler.IdempotencyKey("site-1", instant)
	k2 := scheduler.IdempotencyKey("site-1", instant)
	assert.Equal(t, k1, k2)

	k3 := scheduler.IdempotencyKey("site-1", instant.Add(time.Minute))
	assert.NotEqual(t, k1, k3)
}

func TestNextRunComputesUpcomingFiring(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 59, 0, 0, time.UTC)
	next, err := scheduler.NextRun("0 9 * * *", "UTC", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), next)
}

func TestNextRunRejectsInvalidExpression(t *testing.T) {
	_, err := scheduler.NextRun("not a cron expr", "UTC", time.Now())
	require.Error(t, err)
}
