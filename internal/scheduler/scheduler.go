// Package scheduler runs the process-wide cooperative cron loop (spec §4.5),
// grounded on the teacher's internal/job cron usage, adapted from a
// registration-based cron.New() scheduler to an explicit tick loop that
// polls Schedules from storage rather than holding them in memory.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	crawlercfg "github.com/jonesrussell/gocrawl/internal/config/crawler"
	"github.com/jonesrussell/gocrawl/internal/domain"
	"github.com/jonesrussell/gocrawl/internal/logger"
)

// DefaultTickInterval is the scheduler's poll cadence (spec §4.5).
const DefaultTickInterval = 30 * time.Second

// cronParser matches the teacher's 5-field standard UNIX format: minute,
// hour, day-of-month, month, day-of-week.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ScheduleStore is the storage dependency the Scheduler polls and advances.
type ScheduleStore interface {
	ListActive(ctx context.Context) ([]*domain.Schedule, error)
	Advance(ctx context.Context, id string, firedAt, next time.Time) error
}

// TaskEnqueuer is the Task Queue's enqueue operation.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, jobID string, priority int, idempotencyKey *string, maxAttempts int) (*domain.CrawlTask, error)
}

// JobCreator creates the CrawlJob a scheduled CrawlTask belongs to.
type JobCreator interface {
	Create(ctx context.Context, job *domain.CrawlJob) error
}

// Scheduler is the worker-process-only cooperative cron loop (spec §4.5).
type Scheduler struct {
	schedules ScheduleStore
	jobs      JobCreator
	queue     TaskEnqueuer
	log       logger.Interface
	tick      time.Duration
	now       func() time.Time
}

// New creates a Scheduler with the default tick interval.
func New(schedules ScheduleStore, jobs JobCreator, queue TaskEnqueuer, log logger.Interface) *Scheduler {
	return &Scheduler{
		schedules: schedules,
		jobs:      jobs,
		queue:     queue,
		log:       log,
		tick:      DefaultTickInterval,
		now:       time.Now,
	}
}

// Run blocks, firing Tick on startup and then every tick interval, until ctx
// is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.Tick(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick performs one scheduler pass (spec §4.5 steps 1-3): load active
// schedules, enqueue any due, advance their next_run_at.
func (s *Scheduler) Tick(ctx context.Context) {
	schedules, err := s.schedules.ListActive(ctx)
	if err != nil {
		s.log.Error("scheduler: list active schedules failed", "error", err.Error())
		return
	}

	now := s.now()
	for _, sched := range schedules {
		if sched.NextRunAt == nil || sched.NextRunAt.After(now) {
			continue
		}
		s.fire(ctx, sched, now)
	}
}

// fire creates a pending CrawlJob and enqueues its first CrawlTask under an
// idempotency key derived from the schedule's due instant. A duplicate tick
// (overlapping loop, second scheduler replica) still creates a CrawlJob row
// before the Enqueue conflict is detected; that job is left pending and
// harmless since no task ever references it.
func (s *Scheduler) fire(ctx context.Context, sched *domain.Schedule, now time.Time) {
	job := &domain.CrawlJob{
		SiteID:   sched.SiteID,
		MaxPages: crawlercfg.DefaultMaxPages,
		MaxDepth: crawlercfg.DefaultMaxDepth,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		s.log.Error("scheduler: create job failed", "site_id", sched.SiteID, "error", err.Error())
		return
	}

	key := IdempotencyKey(sched.SiteID, *sched.NextRunAt)
	if _, err := s.queue.Enqueue(ctx, job.ID, 0, &key, domain.DefaultMaxAttempts); err != nil {
		s.log.Error("scheduler: enqueue failed", "site_id", sched.SiteID, "error", err.Error())
		return
	}

	next, err := nextRun(sched.CronExpression, sched.Timezone, now)
	if err != nil {
		s.log.Error("scheduler: compute next run failed", "site_id", sched.SiteID, "error", err.Error())
		return
	}

	if advErr := s.schedules.Advance(ctx, sched.ID, *sched.NextRunAt, next); advErr != nil {
		s.log.Error("scheduler: advance failed", "site_id", sched.SiteID, "error", advErr.Error())
	}
}

// IdempotencyKey buckets the enqueue by the schedule's canonical
// next_run_at instant (not calendar date), so overlapping ticks or multiple
// scheduler replicas never double-enqueue the same firing (spec §4.5,
// redesigned per §9: keying by the scheduled instant rather than the day is
// what actually makes repeated/overlapping ticks idempotent).
func IdempotencyKey(siteID string, nextRunAt time.Time) string {
	return fmt.Sprintf("cron-%s-%d", siteID, nextRunAt.Unix())
}

// nextRun parses expr as a standard 5-field cron expression in the given
// IANA timezone (defaulting to UTC) and returns its next firing after now.
func nextRun(expr, timezone string, now time.Time) (time.Time, error) {
	loc := time.UTC
	if timezone != "" {
		if parsedLoc, err := time.LoadLocation(timezone); err == nil {
			loc = parsedLoc
		}
	}

	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("scheduler: parse cron expression %q: %w", expr, err)
	}

	return schedule.Next(now.In(loc)), nil
}

// NextRun is the exported form of nextRun, used by PUT /sites/{id}/schedule
// to compute the initial next_run_at before the first tick observes it.
func NextRun(expr, timezone string, now time.Time) (time.Time, error) {
	return nextRun(expr, timezone, now)
}
