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

var generatedFileColumns = []string{"id", "site_id", "crawl_job_id", "content", "content_hash", "is_edited", "created_at"}

func newGeneratedFileRepo(t *testing.T) (*database.GeneratedFileRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := sqlx.NewDb(mockDB, "postgres")
	return database.NewGeneratedFileRepository(db), mock, func() { mockDB.Close() }
}

func TestGeneratedFileRepository_Create(t *testing.T) {
	repo, mock, cleanup := newGeneratedFileRepo(t)
	defer cleanup()

	now := time.Now()
	jobID := "job-1"
	mock.ExpectQuery("INSERT INTO generated_files").
		WithArgs("site-1", &jobID, "# llms.txt", "hash1", false).
		WillReturnRows(sqlmock.NewRows(generatedFileColumns).
			AddRow("file-1", "site-1", &jobID, "# llms.txt", "hash1", false, now))

	gf := &domain.GeneratedFile{SiteID: "site-1", CrawlJobID: &jobID, Content: "# llms.txt", ContentHash: "hash1"}
	err := repo.Create(context.Background(), gf)
	require.NoError(t, err)
	assert.Equal(t, "file-1", gf.ID)

	expectationsMet(t, mock)
}

func TestGeneratedFileRepository_Latest_NotFound(t *testing.T) {
	repo, mock, cleanup := newGeneratedFileRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM generated_files").
		WithArgs("site-1").
		WillReturnRows(sqlmock.NewRows(generatedFileColumns))

	_, err := repo.Latest(context.Background(), "site-1")
	assert.ErrorIs(t, err, database.ErrGeneratedFileNotFound)

	expectationsMet(t, mock)
}

func TestGeneratedFileRepository_UpdateContent_NotFound(t *testing.T) {
	repo, mock, cleanup := newGeneratedFileRepo(t)
	defer cleanup()

	mock.ExpectExec("UPDATE generated_files").
		WithArgs("new content", "newhash", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateContent(context.Background(), "missing", "new content", "newhash")
	assert.ErrorIs(t, err, database.ErrGeneratedFileNotFound)

	expectationsMet(t, mock)
}

func TestGeneratedFileRepository_History(t *testing.T) {
	repo, mock, cleanup := newGeneratedFileRepo(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .+ FROM generated_files").
		WithArgs("site-1", 50).
		WillReturnRows(sqlmock.NewRows(generatedFileColumns).
			AddRow("file-2", "site-1", nil, "v2", "hash2", true, now).
			AddRow("file-1", "site-1", nil, "v1", "hash1", false, now))

	files, err := repo.History(context.Background(), "site-1")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "file-2", files[0].ID)

	expectationsMet(t, mock)
}
