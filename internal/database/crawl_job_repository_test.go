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
	"github.com/jonesrussell/gocrawl/internal/domain"
)

var crawlJobColumns = []string{
	"id", "site_id", "status", "pages_found", "pages_crawled", "pages_changed",
	"pages_skipped", "max_pages", "max_depth", "started_at", "finished_at",
	"error_message", "created_at", "updated_at",
}

func newCrawlJobRepo(t *testing.T) (*database.CrawlJobRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := sqlx.NewDb(mockDB, "postgres")
	return database.NewCrawlJobRepository(db), mock, func() { mockDB.Close() }
}

func TestCrawlJobRepository_Create(t *testing.T) {
	repo, mock, cleanup := newCrawlJobRepo(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO crawl_jobs").
		WithArgs("site-1", 200, 3).
		WillReturnRows(sqlmock.NewRows(crawlJobColumns).
			AddRow("job-1", "site-1", "pending", 0, 0, 0, 0, 200, 3, nil, nil, nil, now, now))

	job := &domain.CrawlJob{SiteID: "site-1", MaxPages: 200, MaxDepth: 3}
	err := repo.Create(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, domain.CrawlJobStatusPending, job.Status)

	expectationsMet(t, mock)
}

func TestCrawlJobRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := newCrawlJobRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM crawl_jobs WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(crawlJobColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, database.ErrCrawlJobNotFound)

	expectationsMet(t, mock)
}

func TestCrawlJobRepository_MarkRunning(t *testing.T) {
	repo, mock, cleanup := newCrawlJobRepo(t)
	defer cleanup()

	mock.ExpectExec("UPDATE crawl_jobs SET status = 'running'").
		WithArgs("job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkRunning(context.Background(), "job-1"))

	expectationsMet(t, mock)
}

func TestCrawlJobRepository_MarkRunning_NotFound(t *testing.T) {
	repo, mock, cleanup := newCrawlJobRepo(t)
	defer cleanup()

	mock.ExpectExec("UPDATE crawl_jobs SET status = 'running'").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkRunning(context.Background(), "missing")
	assert.ErrorIs(t, err, database.ErrCrawlJobNotFound)

	expectationsMet(t, mock)
}

func TestCrawlJobRepository_UpdateCounters(t *testing.T) {
	repo, mock, cleanup := newCrawlJobRepo(t)
	defer cleanup()

	mock.ExpectExec("UPDATE crawl_jobs").
		WithArgs(10, 8, 2, 1, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateCounters(context.Background(), "job-1", 10, 8, 2, 1))

	expectationsMet(t, mock)
}

func TestCrawlJobRepository_MarkCompleted(t *testing.T) {
	repo, mock, cleanup := newCrawlJobRepo(t)
	defer cleanup()

	mock.ExpectExec("UPDATE crawl_jobs SET status = 'completed'").
		WithArgs("job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkCompleted(context.Background(), "job-1"))

	expectationsMet(t, mock)
}

func TestCrawlJobRepository_MarkFailed(t *testing.T) {
	repo, mock, cleanup := newCrawlJobRepo(t)
	defer cleanup()

	mock.ExpectExec("UPDATE crawl_jobs").
		WithArgs("boom", "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkFailed(context.Background(), "job-1", "boom"))

	expectationsMet(t, mock)
}

func TestCrawlJobRepository_LatestCompletedForSite_NotFound(t *testing.T) {
	repo, mock, cleanup := newCrawlJobRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM crawl_jobs").
		WithArgs("site-1").
		WillReturnRows(sqlmock.NewRows(crawlJobColumns))

	_, err := repo.LatestCompletedForSite(context.Background(), "site-1")
	assert.ErrorIs(t, err, database.ErrCrawlJobNotFound)

	expectationsMet(t, mock)
}
