// Package worker implements the worker-process claim loop (spec §4.6),
// grounded on the teacher's internal/fetcher.WorkerPool claim/process loop,
// adapted from per-URL frontier claims to per-CrawlTask queue claims.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonesrussell/gocrawl/internal/database"
	"github.com/jonesrussell/gocrawl/internal/domain"
	"github.com/jonesrussell/gocrawl/internal/logger"
	"github.com/jonesrussell/gocrawl/internal/queue"
	workercfg "github.com/jonesrussell/gocrawl/internal/config/worker"
)

// heartbeatInterval is how often the heartbeat fiber renews the lease
// while a task runs (spec §4.6: "every 10s").
const heartbeatInterval = 10 * time.Second

// Pipeline executes the crawl work for one claimed CrawlTask.
type Pipeline interface {
	Run(ctx context.Context, task *domain.CrawlTask) error
}

// Runtime is one worker process's claim loop: recover, claim, spawn,
// heartbeat, complete/fail (spec §4.6 pseudocode).
type Runtime struct {
	queue    queue.TaskQueue
	pipeline Pipeline
	log      logger.Interface
	cfg      workercfg.Config
}

// New creates a worker Runtime.
func New(q queue.TaskQueue, pipeline Pipeline, log logger.Interface, cfg workercfg.Config) *Runtime {
	return &Runtime{queue: q, pipeline: pipeline, log: log, cfg: cfg}
}

// Run blocks, executing the claim loop until ctx is cancelled. At most one
// claimed task runs at a time per worker process, since each crawl itself
// fans out internally (spec §4.6): the loop claims again only after the
// running task has finished.
func (r *Runtime) Run(ctx context.Context) {
	pollInterval := time.Duration(r.cfg.PollIntervalSecs) * time.Second
	leaseDuration := time.Duration(r.cfg.TaskLeaseSeconds) * time.Second

	// slot holds a token while a task runs, capping this process at one
	// active crawl.
	slot := make(chan struct{}, 1)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case slot <- struct{}{}:
		}

		if n, err := r.queue.Recover(ctx); err != nil {
			r.log.Error("worker: recover failed", "error", err.Error())
		} else if n > 0 {
			r.log.Info("worker: recovered expired leases", "count", n)
		}

		task, err := r.queue.Claim(ctx, r.cfg.WorkerID, leaseDuration)
		switch {
		case errors.Is(err, database.ErrNoTaskAvailable):
			<-slot
			if r.sleepOrCancel(ctx, pollInterval) {
				return
			}
			continue
		case err != nil:
			r.log.Error("worker: claim failed", "error", err.Error())
			<-slot
			if r.sleepOrCancel(ctx, pollInterval) {
				return
			}
			continue
		}

		wg.Add(1)
		go func(t *domain.CrawlTask) {
			defer wg.Done()
			defer func() { <-slot }()
			r.runTask(ctx, t, leaseDuration)
		}(task)
	}
}

func (r *Runtime) sleepOrCancel(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return true
	case <-time.After(d):
		return false
	}
}

// runTask drives one claimed task through the pipeline, renewing its lease
// via a heartbeat fiber that is cancelled deterministically on both the
// success and failure paths (spec §4.6).
func (r *Runtime) runTask(ctx context.Context, task *domain.CrawlTask, leaseDuration time.Duration) {
	hbCtx, cancelHeartbeat := context.WithCancel(ctx)
	var hbWG sync.WaitGroup
	hbWG.Add(1)
	go func() {
		defer hbWG.Done()
		r.heartbeat(hbCtx, task.ID, leaseDuration)
	}()

	err := r.pipeline.Run(ctx, task)

	cancelHeartbeat()
	hbWG.Wait()

	if err != nil {
		r.log.Error("worker: task failed", "task_id", task.ID, "error", err.Error())
		if failErr := r.queue.Fail(ctx, task.ID, r.cfg.WorkerID, err.Error()); failErr != nil {
			r.log.Error("worker: fail transition failed", "task_id", task.ID, "error", failErr.Error())
		}
		return
	}

	if completeErr := r.queue.Complete(ctx, task.ID, r.cfg.WorkerID); completeErr != nil {
		r.log.Error("worker: complete transition failed", "task_id", task.ID, "error", completeErr.Error())
	}
}

func (r *Runtime) heartbeat(ctx context.Context, taskID string, leaseDuration time.Duration) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.queue.Heartbeat(ctx, taskID, r.cfg.WorkerID, leaseDuration); err != nil {
				r.log.Error("worker: heartbeat failed", "task_id", taskID, "error", err.Error())
			}
		}
	}
}
