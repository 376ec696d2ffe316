package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jonesrussell/gocrawl/internal/domain"
)

// ErrCrawlJobNotFound is returned when a lookup by ID finds no row.
var ErrCrawlJobNotFound = errors.New("crawl job not found")

const crawlJobSelectColumns = `id, site_id, status, pages_found, pages_crawled, pages_changed,
	pages_skipped, max_pages, max_depth, started_at, finished_at, error_message, created_at, updated_at`

// CrawlJobRepository persists CrawlJob rows.
type CrawlJobRepository struct {
	db *sqlx.DB
}

// NewCrawlJobRepository creates a new crawl job repository.
func NewCrawlJobRepository(db *sqlx.DB) *CrawlJobRepository {
	return &CrawlJobRepository{db: db}
}

// Create inserts a pending CrawlJob for a site.
func (r *CrawlJobRepository) Create(ctx context.Context, job *domain.CrawlJob) error {
	query := `
		INSERT INTO crawl_jobs (site_id, status, max_pages, max_depth)
		VALUES ($1, 'pending', $2, $3)
		RETURNING ` + crawlJobSelectColumns

	err := r.db.GetContext(ctx, job, query, job.SiteID, job.MaxPages, job.MaxDepth)
	if err != nil {
		return fmt.Errorf("failed to create crawl job: %w", err)
	}
	return nil
}

// GetByID fetches a crawl job by ID.
func (r *CrawlJobRepository) GetByID(ctx context.Context, id string) (*domain.CrawlJob, error) {
	query := `SELECT ` + crawlJobSelectColumns + ` FROM crawl_jobs WHERE id = $1`

	var job domain.CrawlJob
	err := r.db.GetContext(ctx, &job, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCrawlJobNotFound
		}
		return nil, fmt.Errorf("failed to get crawl job: %w", err)
	}
	return &job, nil
}

// MarkRunning transitions pending -> running and stamps started_at.
func (r *CrawlJobRepository) MarkRunning(ctx context.Context, id string) error {
	query := `UPDATE crawl_jobs SET status = 'running', started_at = NOW(), updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	return execRequireRows(result, err, ErrCrawlJobNotFound)
}

// UpdateCounters overwrites the monotonic progress counters (spec §3: they
// increase monotonically within a run, so callers must pass cumulative
// totals, not deltas).
func (r *CrawlJobRepository) UpdateCounters(
	ctx context.Context,
	id string,
	pagesFound, pagesCrawled, pagesChanged, pagesSkipped int,
) error {
	query := `
		UPDATE crawl_jobs
		SET pages_found = $1, pages_crawled = $2, pages_changed = $3, pages_skipped = $4, updated_at = NOW()
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query, pagesFound, pagesCrawled, pagesChanged, pagesSkipped, id)
	return execRequireRows(result, err, ErrCrawlJobNotFound)
}

// MarkCompleted transitions running -> completed and stamps finished_at.
func (r *CrawlJobRepository) MarkCompleted(ctx context.Context, id string) error {
	query := `UPDATE crawl_jobs SET status = 'completed', finished_at = NOW(), updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	return execRequireRows(result, err, ErrCrawlJobNotFound)
}

// MarkFailed transitions to failed and records the first permanent error or
// final transient error (spec §7).
func (r *CrawlJobRepository) MarkFailed(ctx context.Context, id, errMsg string) error {
	query := `
		UPDATE crawl_jobs
		SET status = 'failed', finished_at = NOW(), error_message = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := r.db.ExecContext(ctx, query, errMsg, id)
	return execRequireRows(result, err, ErrCrawlJobNotFound)
}

// LatestCompletedForSite returns the most recent completed CrawlJob for a
// site, used by the Change Tracker to diff against the prior run.
func (r *CrawlJobRepository) LatestCompletedForSite(ctx context.Context, siteID string) (*domain.CrawlJob, error) {
	query := `
		SELECT ` + crawlJobSelectColumns + `
		FROM crawl_jobs
		WHERE site_id = $1 AND status = 'completed'
		ORDER BY finished_at DESC
		LIMIT 1
	`
	var job domain.CrawlJob
	err := r.db.GetContext(ctx, &job, query, siteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCrawlJobNotFound
		}
		return nil, fmt.Errorf("failed to get latest completed crawl job: %w", err)
	}
	return &job, nil
}
