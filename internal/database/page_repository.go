package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jonesrussell/gocrawl/internal/domain"
)

// ErrPageNotFound is returned when a lookup by ID finds no row.
var ErrPageNotFound = errors.New("page not found")

const pageSelectColumns = `id, site_id, crawl_job_id, url, title, description, headings,
	category, relevance_score, depth, content_hash, status, first_seen_at, last_seen_at`

// pageRow mirrors domain.Page but maps headings through pq.StringArray,
// since lib/pq does not scan Go []string directly into a text[] column.
type pageRow struct {
	ID             int64          `db:"id"`
	SiteID         string         `db:"site_id"`
	CrawlJobID     string         `db:"crawl_job_id"`
	URL            string         `db:"url"`
	Title          *string        `db:"title"`
	Description    *string        `db:"description"`
	Headings       pq.StringArray `db:"headings"`
	Category       string         `db:"category"`
	RelevanceScore float64        `db:"relevance_score"`
	Depth          int            `db:"depth"`
	ContentHash    string         `db:"content_hash"`
	Status         string         `db:"status"`
	FirstSeenAt    time.Time      `db:"first_seen_at"`
	LastSeenAt     time.Time      `db:"last_seen_at"`
}

// PageRepository persists Page rows.
type PageRepository struct {
	db *sqlx.DB
}

// NewPageRepository creates a new page repository.
func NewPageRepository(db *sqlx.DB) *PageRepository {
	return &PageRepository{db: db}
}

// Insert stores one Page row for a CrawlJob.
func (r *PageRepository) Insert(ctx context.Context, page *domain.Page) error {
	query := `
		INSERT INTO pages (site_id, crawl_job_id, url, title, description, headings,
			category, relevance_score, depth, content_hash, status, first_seen_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, first_seen_at, last_seen_at
	`
	row := r.db.QueryRowxContext(ctx, query,
		page.SiteID, page.CrawlJobID, page.URL, page.Title, page.Description,
		pq.StringArray(page.Headings), page.Category, page.RelevanceScore, page.Depth,
		page.ContentHash, page.Status, page.FirstSeenAt, page.LastSeenAt,
	)
	if err := row.Scan(&page.ID, &page.FirstSeenAt, &page.LastSeenAt); err != nil {
		return fmt.Errorf("failed to insert page: %w", err)
	}
	return nil
}

// ListByJob returns all pages for a CrawlJob ordered by id ascending, used
// both for the change tracker and for Progress Stream replay (spec §4.7).
func (r *PageRepository) ListByJob(ctx context.Context, jobID string) ([]*domain.Page, error) {
	query := `SELECT ` + pageSelectColumns + ` FROM pages WHERE crawl_job_id = $1 ORDER BY id ASC`
	return r.queryPages(ctx, query, jobID)
}

// ListByJobAfter returns pages for a CrawlJob with id > afterID, ordered
// ascending, for the Progress Stream's live-poll step (spec §4.7.3). id is
// an identity column assigned in insertion order, so "id > afterID" is
// equivalent to "inserted after the page afterID identifies".
func (r *PageRepository) ListByJobAfter(ctx context.Context, jobID string, afterID int64) ([]*domain.Page, error) {
	query := `SELECT ` + pageSelectColumns + ` FROM pages WHERE crawl_job_id = $1 AND id > $2 ORDER BY id ASC`
	return r.queryPages(ctx, query, jobID, afterID)
}

func (r *PageRepository) queryPages(ctx context.Context, query string, args ...any) ([]*domain.Page, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []*domain.Page
	for rows.Next() {
		var rr pageRow
		if scanErr := rows.StructScan(&rr); scanErr != nil {
			return nil, fmt.Errorf("failed to scan page: %w", scanErr)
		}
		pages = append(pages, rowToPage(&rr))
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate pages: %w", rowsErr)
	}
	return pages, nil
}

// LatestByURL returns the Page row for (site_id, url) with the latest
// last_seen_at among jobs other than excludeJobID; the status of that job is
// not checked.
func (r *PageRepository) LatestByURL(ctx context.Context, siteID, url, excludeJobID string) (*domain.Page, error) {
	query := `
		SELECT ` + pageSelectColumns + `
		FROM pages
		WHERE site_id = $1 AND url = $2 AND crawl_job_id != $3
		ORDER BY last_seen_at DESC
		LIMIT 1
	`
	var rr pageRow
	err := r.db.QueryRowxContext(ctx, query, siteID, url, excludeJobID).StructScan(&rr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to get latest page by url: %w", err)
	}
	return rowToPage(&rr), nil
}

// URLsForJob returns the distinct URLs recorded for a CrawlJob, used to
// detect `removed` pages relative to the prior crawl.
func (r *PageRepository) URLsForJob(ctx context.Context, jobID string) ([]string, error) {
	var urls []string
	query := `SELECT url FROM pages WHERE crawl_job_id = $1`
	if err := r.db.SelectContext(ctx, &urls, query, jobID); err != nil {
		return nil, fmt.Errorf("failed to list urls for job: %w", err)
	}
	return urls, nil
}

func rowToPage(rr *pageRow) *domain.Page {
	return &domain.Page{
		ID:             rr.ID,
		SiteID:         rr.SiteID,
		CrawlJobID:     rr.CrawlJobID,
		URL:            rr.URL,
		Title:          rr.Title,
		Description:    rr.Description,
		Headings:       []string(rr.Headings),
		Category:       rr.Category,
		RelevanceScore: rr.RelevanceScore,
		Depth:          rr.Depth,
		ContentHash:    rr.ContentHash,
		Status:         rr.Status,
		FirstSeenAt:    rr.FirstSeenAt,
		LastSeenAt:     rr.LastSeenAt,
	}
}
