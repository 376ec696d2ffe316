package domain

import "time"

// GeneratedFile is a versioned, append-only assembled llms.txt document.
// The "current" document for a Site is its most recent row. PUT
// /sites/{id}/llms-txt updates this row in place rather than appending
// (see DESIGN.md, grounded on original_source's routers/generate.py).
type GeneratedFile struct {
	ID          string    `db:"id" json:"id"`
	SiteID      string    `db:"site_id" json:"site_id"`
	CrawlJobID  *string   `db:"crawl_job_id" json:"crawl_job_id,omitempty"`
	Content     string    `db:"content" json:"content"`
	ContentHash string    `db:"content_hash" json:"content_hash"`
	IsEdited    bool      `db:"is_edited" json:"is_edited"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
