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

var pageColumns = []string{
	"id", "site_id", "crawl_job_id", "url", "title", "description", "headings",
	"category", "relevance_score", "depth", "content_hash", "status", "first_seen_at", "last_seen_at",
}

func newPageRepo(t *testing.T) (*database.PageRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := sqlx.NewDb(mockDB, "postgres")
	return database.NewPageRepository(db), mock, func() { mockDB.Close() }
}

func TestPageRepository_Insert(t *testing.T) {
	repo, mock, cleanup := newPageRepo(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO pages").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_seen_at", "last_seen_at"}).
			AddRow(int64(1), now, now))

	page := &domain.Page{
		SiteID:         "site-1",
		CrawlJobID:     "job-1",
		URL:            "https://example.com/docs",
		Headings:       []string{"Intro"},
		Category:       domain.CategoryDocumentation,
		RelevanceScore: 0.8,
		ContentHash:    "abc123",
		Status:         domain.PageStatusAdded,
	}
	err := repo.Insert(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.ID)

	expectationsMet(t, mock)
}

func TestPageRepository_ListByJob(t *testing.T) {
	repo, mock, cleanup := newPageRepo(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .+ FROM pages WHERE crawl_job_id = \\$1 ORDER BY id ASC").
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow(int64(1), "site-1", "job-1", "https://example.com/docs", nil, nil,
				"{Intro,Setup}", domain.CategoryDocumentation, 0.8, 1, "abc123", domain.PageStatusAdded, now, now))

	pages, err := repo.ListByJob(context.Background(), "job-1")
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, []string{"Intro", "Setup"}, pages[0].Headings)

	expectationsMet(t, mock)
}

func TestPageRepository_ListByJobAfter(t *testing.T) {
	repo, mock, cleanup := newPageRepo(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .+ FROM pages WHERE crawl_job_id = \\$1 AND id > \\$2").
		WithArgs("job-1", int64(1)).
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow(int64(2), "site-1", "job-1", "https://example.com/api", nil, nil,
				"{}", domain.CategoryAPIReference, 0.9, 1, "def456", domain.PageStatusAdded, now, now))

	pages, err := repo.ListByJobAfter(context.Background(), "job-1", int64(1))
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, int64(2), pages[0].ID)

	expectationsMet(t, mock)
}

func TestPageRepository_LatestByURL_NotFound(t *testing.T) {
	repo, mock, cleanup := newPageRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM pages").
		WithArgs("site-1", "https://example.com/docs", "job-2").
		WillReturnRows(sqlmock.NewRows(pageColumns))

	_, err := repo.LatestByURL(context.Background(), "site-1", "https://example.com/docs", "job-2")
	assert.ErrorIs(t, err, database.ErrPageNotFound)

	expectationsMet(t, mock)
}

func TestPageRepository_URLsForJob(t *testing.T) {
	repo, mock, cleanup := newPageRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT url FROM pages WHERE crawl_job_id").
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows([]string{"url"}).
			AddRow("https://example.com/a").
			AddRow("https://example.com/b"))

	urls, err := repo.URLsForJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, urls)

	expectationsMet(t, mock)
}
