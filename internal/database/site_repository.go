package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jonesrussell/gocrawl/internal/domain"
)

// ErrSiteNotFound is returned when a lookup by ID finds no row.
var ErrSiteNotFound = errors.New("site not found")

const siteSelectColumns = `id, url, domain, title, description, created_at, updated_at`

// SiteRepository persists Site rows.
type SiteRepository struct {
	db *sqlx.DB
}

// NewSiteRepository creates a new site repository.
func NewSiteRepository(db *sqlx.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// Create inserts a new site. Callers should normalize URL/domain first
// (internal/crawl/normalize.go).
func (r *SiteRepository) Create(ctx context.Context, site *domain.Site) error {
	query := `
		INSERT INTO sites (url, domain, title, description)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + siteSelectColumns

	err := r.db.GetContext(ctx, site, query, site.URL, site.Domain, site.Title, site.Description)
	if err != nil {
		return fmt.Errorf("failed to create site: %w", err)
	}
	return nil
}

// GetByID fetches a site by ID.
func (r *SiteRepository) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	query := `SELECT ` + siteSelectColumns + ` FROM sites WHERE id = $1`

	var site domain.Site
	err := r.db.GetContext(ctx, &site, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSiteNotFound
		}
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	return &site, nil
}

// GetByURL fetches a site by its normalized URL, used to dedupe POST /sites.
func (r *SiteRepository) GetByURL(ctx context.Context, url string) (*domain.Site, error) {
	query := `SELECT ` + siteSelectColumns + ` FROM sites WHERE url = $1`

	var site domain.Site
	err := r.db.GetContext(ctx, &site, query, url)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSiteNotFound
		}
		return nil, fmt.Errorf("failed to get site by url: %w", err)
	}
	return &site, nil
}

// Delete removes a site; dependent CrawlJobs/Pages/GeneratedFiles/Schedule
// cascade via foreign keys (spec §3).
func (r *SiteRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM sites WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	return execRequireRows(result, err, ErrSiteNotFound)
}
