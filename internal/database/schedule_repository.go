package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/gocrawl/internal/domain"
)

// ErrScheduleNotFound is returned when a lookup by site ID finds no row.
var ErrScheduleNotFound = errors.New("schedule not found")

const scheduleSelectColumns = `id, site_id, cron_expression, is_active, last_run_at, next_run_at, timezone`

// ScheduleRepository persists the single Schedule row per Site.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Upsert inserts or replaces the schedule for a site (PUT /sites/{id}/schedule).
func (r *ScheduleRepository) Upsert(
	ctx context.Context,
	siteID, cronExpr, timezone string,
	nextRunAt time.Time,
) (*domain.Schedule, error) {
	query := `
		INSERT INTO schedules (site_id, cron_expression, is_active, next_run_at, timezone)
		VALUES ($1, $2, TRUE, $3, $4)
		ON CONFLICT (site_id) DO UPDATE SET
			cron_expression = EXCLUDED.cron_expression,
			is_active = TRUE,
			next_run_at = EXCLUDED.next_run_at,
			timezone = EXCLUDED.timezone
		RETURNING ` + scheduleSelectColumns

	var s domain.Schedule
	err := r.db.GetContext(ctx, &s, query, siteID, cronExpr, nextRunAt, timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert schedule: %w", err)
	}
	return &s, nil
}

// ListActive returns every active schedule, used by the Scheduler's tick
// loop (spec §4.5 step 1).
func (r *ScheduleRepository) ListActive(ctx context.Context) ([]*domain.Schedule, error) {
	query := `SELECT ` + scheduleSelectColumns + ` FROM schedules WHERE is_active = TRUE`
	var schedules []*domain.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query); err != nil {
		return nil, fmt.Errorf("failed to list active schedules: %w", err)
	}
	return schedules, nil
}

// Advance sets last_run_at=firedAt and next_run_at=next after a fire
// (spec §4.5 step 3).
func (r *ScheduleRepository) Advance(ctx context.Context, id string, firedAt, next time.Time) error {
	query := `UPDATE schedules SET last_run_at = $1, next_run_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, firedAt, next, id)
	return execRequireRows(result, err, ErrScheduleNotFound)
}

// GetBySiteID fetches the schedule for a site, if any.
func (r *ScheduleRepository) GetBySiteID(ctx context.Context, siteID string) (*domain.Schedule, error) {
	query := `SELECT ` + scheduleSelectColumns + ` FROM schedules WHERE site_id = $1`
	var s domain.Schedule
	err := r.db.GetContext(ctx, &s, query, siteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &s, nil
}
