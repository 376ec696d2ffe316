package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/gocrawl/internal/domain"
)

// ErrGeneratedFileNotFound is returned when no GeneratedFile exists for a site.
var ErrGeneratedFileNotFound = errors.New("generated file not found")

const generatedFileSelectColumns = `id, site_id, crawl_job_id, content, content_hash, is_edited, created_at`

// GeneratedFileRepository persists versioned GeneratedFile rows.
type GeneratedFileRepository struct {
	db *sqlx.DB
}

// NewGeneratedFileRepository creates a new generated file repository.
func NewGeneratedFileRepository(db *sqlx.DB) *GeneratedFileRepository {
	return &GeneratedFileRepository{db: db}
}

// Create appends a new version (spec §3: versioned append-only).
func (r *GeneratedFileRepository) Create(ctx context.Context, gf *domain.GeneratedFile) error {
	query := `
		INSERT INTO generated_files (site_id, crawl_job_id, content, content_hash, is_edited)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + generatedFileSelectColumns

	err := r.db.GetContext(ctx, gf, query, gf.SiteID, gf.CrawlJobID, gf.Content, gf.ContentHash, gf.IsEdited)
	if err != nil {
		return fmt.Errorf("failed to create generated file: %w", err)
	}
	return nil
}

// Latest returns the most recent GeneratedFile row for a site — the
// "current" document (spec §3).
func (r *GeneratedFileRepository) Latest(ctx context.Context, siteID string) (*domain.GeneratedFile, error) {
	query := `
		SELECT ` + generatedFileSelectColumns + `
		FROM generated_files
		WHERE site_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var gf domain.GeneratedFile
	err := r.db.GetContext(ctx, &gf, query, siteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGeneratedFileNotFound
		}
		return nil, fmt.Errorf("failed to get latest generated file: %w", err)
	}
	return &gf, nil
}

// UpdateContent rewrites the latest row's content/content_hash and marks it
// is_edited=true, in place. This is the PUT /sites/{id}/llms-txt semantics
// recovered from original_source's routers/generate.py — it does not
// append a new version row.
func (r *GeneratedFileRepository) UpdateContent(ctx context.Context, id, content, contentHash string) error {
	query := `
		UPDATE generated_files
		SET content = $1, content_hash = $2, is_edited = TRUE
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, content, contentHash, id)
	return execRequireRows(result, err, ErrGeneratedFileNotFound)
}

// History returns up to 50 most recent GeneratedFile rows for a site
// (recovered from original_source's GET .../history endpoint).
func (r *GeneratedFileRepository) History(ctx context.Context, siteID string) ([]*domain.GeneratedFile, error) {
	const historyLimit = 50
	query := `
		SELECT ` + generatedFileSelectColumns + `
		FROM generated_files
		WHERE site_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	var files []*domain.GeneratedFile
	if err := r.db.SelectContext(ctx, &files, query, siteID, historyLimit); err != nil {
		return nil, fmt.Errorf("failed to list generated file history: %w", err)
	}
	return files, nil
}
