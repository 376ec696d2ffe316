package queue

import (
	"context"
	"time"

	"github.com/jonesrussell/gocrawl/internal/domain"
)

// TaskQueue is the contract operations from spec §4.1, implemented against
// Postgres by database.TaskRepository and satisfied by a fake in tests.
type TaskQueue interface {
	// Enqueue inserts a queued task with available_at=now(). If
	// idempotencyKey is non-nil and already present, the existing task is
	// returned instead of a new row being created.
	Enqueue(ctx context.Context, jobID string, priority int, idempotencyKey *string, maxAttempts int) (*domain.CrawlTask, error)
	// Claim atomically selects and leases one eligible task using
	// SELECT ... FOR UPDATE SKIP LOCKED, tie-broken by
	// (priority DESC, available_at ASC, id ASC).
	Claim(ctx context.Context, workerID string, leaseDuration time.Duration) (*domain.CrawlTask, error)
	// Heartbeat extends leased_until if the caller owns the lease.
	Heartbeat(ctx context.Context, taskID, workerID string, extension time.Duration) error
	// Complete transitions leased -> succeeded.
	Complete(ctx context.Context, taskID, workerID string) error
	// Fail requeues with backoff or dead-letters past max_attempts.
	Fail(ctx context.Context, taskID, workerID, errMsg string) error
	// Recover reclaims expired leases back to queued.
	Recover(ctx context.Context) (int, error)
}
