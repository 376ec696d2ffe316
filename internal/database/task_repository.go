package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jonesrussell/gocrawl/internal/apperr"
	"github.com/jonesrussell/gocrawl/internal/domain"
	"github.com/jonesrussell/gocrawl/internal/queue"
)

// ErrNoTaskAvailable is returned when Claim finds no eligible task.
var ErrNoTaskAvailable = errors.New("no task available in queue")

const taskSelectColumns = `id, job_id, status, attempts, max_attempts, priority, available_at,
	leased_until, lease_owner, idempotency_key, last_error, created_at`

// TaskRepository implements queue.TaskQueue against Postgres using
// SELECT ... FOR UPDATE SKIP LOCKED.
type TaskRepository struct {
	db *sqlx.DB
}

var _ queue.TaskQueue = (*TaskRepository)(nil)

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Enqueue inserts a queued task, or returns the existing row when
// idempotencyKey already exists (spec §4.1).
func (r *TaskRepository) Enqueue(
	ctx context.Context,
	jobID string,
	priority int,
	idempotencyKey *string,
	maxAttempts int,
) (*domain.CrawlTask, error) {
	if maxAttempts <= 0 {
		maxAttempts = domain.DefaultMaxAttempts
	}

	query := `
		INSERT INTO crawl_tasks (job_id, status, attempts, max_attempts, priority, available_at, idempotency_key)
		VALUES ($1, 'queued', 0, $2, $3, NOW(), $4)
		ON CONFLICT (idempotency_key) WHERE idempotency_key IS NOT NULL DO UPDATE SET
			idempotency_key = EXCLUDED.idempotency_key
		RETURNING ` + taskSelectColumns

	var task domain.CrawlTask
	err := r.db.GetContext(ctx, &task, query, jobID, maxAttempts, priority, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue crawl task: %w", err)
	}
	return &task, nil
}

// Claim atomically selects and leases the next eligible task.
func (r *TaskRepository) Claim(ctx context.Context, workerID string, leaseDuration time.Duration) (*domain.CrawlTask, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	task, selectErr := claimSelectTask(ctx, tx)
	if selectErr != nil {
		return nil, selectErr
	}

	if updateErr := claimUpdateTask(ctx, tx, task.ID, workerID, leaseDuration); updateErr != nil {
		return nil, updateErr
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return nil, fmt.Errorf("failed to commit claim transaction: %w", commitErr)
	}

	task.Status = domain.CrawlTaskStatusLeased
	task.Attempts++
	task.LeaseOwner = &workerID
	leasedUntil := time.Now().Add(leaseDuration)
	task.LeasedUntil = &leasedUntil
	return task, nil
}

// claimSelectTask selects and locks the highest-priority eligible task,
// tie-broken by (priority DESC, available_at ASC, id ASC) per spec §4.1.
func claimSelectTask(ctx context.Context, tx *sqlx.Tx) (*domain.CrawlTask, error) {
	query := `
		SELECT ` + taskSelectColumns + `
		FROM crawl_tasks
		WHERE status IN ('queued', 'failed')
		  AND available_at <= NOW()
		  AND attempts < max_attempts
		ORDER BY priority DESC, available_at ASC, id ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`

	var task domain.CrawlTask
	err := tx.GetContext(ctx, &task, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoTaskAvailable
		}
		return nil, fmt.Errorf("failed to select claimable task: %w", err)
	}
	return &task, nil
}

func claimUpdateTask(ctx context.Context, tx *sqlx.Tx, id, workerID string, leaseDuration time.Duration) error {
	query := `
		UPDATE crawl_tasks
		SET status = 'leased',
			lease_owner = $1,
			leased_until = NOW() + $2::interval,
			attempts = attempts + 1
		WHERE id = $3
	`
	_, err := tx.ExecContext(ctx, query, workerID, leaseDuration.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update claimed task: %w", err)
	}
	return nil
}

// Heartbeat extends leased_until only if the caller owns the lease.
func (r *TaskRepository) Heartbeat(ctx context.Context, taskID, workerID string, extension time.Duration) error {
	query := `
		UPDATE crawl_tasks
		SET leased_until = NOW() + $1::interval
		WHERE id = $2 AND lease_owner = $3 AND status = 'leased'
	`
	result, err := r.db.ExecContext(ctx, query, extension.String(), taskID, workerID)
	if execErr := execRequireRows(result, err, apperr.ErrNotOwner); execErr != nil {
		return execErr
	}
	return nil
}

// Complete transitions leased -> succeeded, failing with apperr.ErrNotOwner
// if ownership changed (spec §4.1).
func (r *TaskRepository) Complete(ctx context.Context, taskID, workerID string) error {
	query := `
		UPDATE crawl_tasks
		SET status = 'succeeded', leased_until = NULL, lease_owner = NULL
		WHERE id = $1 AND lease_owner = $2 AND status = 'leased'
	`
	result, err := r.db.ExecContext(ctx, query, taskID, workerID)
	return execRequireRows(result, err, apperr.ErrNotOwner)
}

// Fail requeues the task with exponential backoff, or dead-letters it once
// max_attempts is exhausted (spec §4.1).
func (r *TaskRepository) Fail(ctx context.Context, taskID, workerID, errMsg string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin fail transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var task domain.CrawlTask
	selectQuery := `
		SELECT ` + taskSelectColumns + `
		FROM crawl_tasks
		WHERE id = $1 AND lease_owner = $2 AND status = 'leased'
		FOR UPDATE
	`
	if getErr := tx.GetContext(ctx, &task, selectQuery, taskID, workerID); getErr != nil {
		if errors.Is(getErr, sql.ErrNoRows) {
			return apperr.ErrNotOwner
		}
		return fmt.Errorf("failed to select task for fail: %w", getErr)
	}

	if task.Attempts >= task.MaxAttempts {
		updateQuery := `
			UPDATE crawl_tasks
			SET status = 'dead_letter', last_error = $1, leased_until = NULL, lease_owner = NULL
			WHERE id = $2
		`
		if _, execErr := tx.ExecContext(ctx, updateQuery, errMsg, taskID); execErr != nil {
			return fmt.Errorf("failed to dead-letter task: %w", execErr)
		}
		return tx.Commit()
	}

	delay := queue.Backoff(task.Attempts, queue.RandomJitter())
	updateQuery := `
		UPDATE crawl_tasks
		SET status = 'queued',
			available_at = NOW() + $1::interval,
			last_error = $2,
			leased_until = NULL,
			lease_owner = NULL
		WHERE id = $3
	`
	if _, execErr := tx.ExecContext(ctx, updateQuery, delay.String(), errMsg, taskID); execErr != nil {
		return fmt.Errorf("failed to requeue task: %w", execErr)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("failed to commit fail transaction: %w", commitErr)
	}
	return nil
}

// Recover reclaims tasks whose lease expired without the owner renewing it,
// returning them to queued without incrementing attempts (spec §4.1: the
// attempt already counted at claim time).
func (r *TaskRepository) Recover(ctx context.Context) (int, error) {
	query := `
		UPDATE crawl_tasks
		SET status = 'queued',
			available_at = NOW(),
			lease_owner = NULL,
			leased_until = NULL,
			last_error = 'recovered: lease expired before heartbeat'
		WHERE status = 'leased' AND leased_until < NOW()
	`
	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to recover expired leases: %w", err)
	}
	n, affectedErr := result.RowsAffected()
	if affectedErr != nil {
		return 0, fmt.Errorf("failed to count recovered tasks: %w", affectedErr)
	}
	return int(n), nil
}
