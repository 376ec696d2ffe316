package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gocrawl/internal/database"
)

var scheduleColumns = []string{"id", "site_id", "cron_expression", "is_active", "last_run_at", "next_run_at", "timezone"}

func newScheduleRepo(t *testing.T) (*database.ScheduleRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := sqlx.NewDb(mockDB, "postgres")
	return database.NewScheduleRepository(db), mock, func() { mockDB.Close() }
}

func TestScheduleRepository_Upsert(t *testing.T) {
	repo, mock, cleanup := newScheduleRepo(t)
	defer cleanup()

	next := time.Now().Add(time.Hour)
	mock.ExpectQuery("INSERT INTO schedules").
		WithArgs("site-1", "0 */6 * * *", next, "UTC").
		WillReturnRows(sqlmock.NewRows(scheduleColumns).
			AddRow("sched-1", "site-1", "0 */6 * * *", true, nil, next, "UTC"))

	schedule, err := repo.Upsert(context.Background(), "site-1", "0 */6 * * *", "UTC", next)
	require.NoError(t, err)
	assert.Equal(t, "sched-1", schedule.ID)
	assert.True(t, schedule.IsActive)

	expectationsMet(t, mock)
}

func TestScheduleRepository_ListActive(t *testing.T) {
	repo, mock, cleanup := newScheduleRepo(t)
	defer cleanup()

	next := time.Now().Add(time.Hour)
	mock.ExpectQuery("SELECT .+ FROM schedules WHERE is_active").
		WillReturnRows(sqlmock.NewRows(scheduleColumns).
			AddRow("sched-1", "site-1", "0 */6 * * *", true, nil, next, "UTC"))

	schedules, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, "site-1", schedules[0].SiteID)

	expectationsMet(t, mock)
}

func TestScheduleRepository_Advance_NotFound(t *testing.T) {
	repo, mock, cleanup := newScheduleRepo(t)
	defer cleanup()

	firedAt := time.Now()
	next := firedAt.Add(6 * time.Hour)
	mock.ExpectExec("UPDATE schedules SET last_run_at").
		WithArgs(firedAt, next, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Advance(context.Background(), "missing", firedAt, next)
	assert.ErrorIs(t, err, database.ErrScheduleNotFound)

	expectationsMet(t, mock)
}

func TestScheduleRepository_GetBySiteID_NotFound(t *testing.T) {
	repo, mock, cleanup := newScheduleRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM schedules WHERE site_id").
		WithArgs("site-1").
		WillReturnRows(sqlmock.NewRows(scheduleColumns))

	_, err := repo.GetBySiteID(context.Background(), "site-1")
	assert.ErrorIs(t, err, database.ErrScheduleNotFound)

	expectationsMet(t, mock)
}
