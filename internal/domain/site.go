// Package domain provides the persistent entities shared across the API,
// worker, crawler, and scheduler packages.
package domain

import "time"

// Site is a registered website to crawl. Deletion cascades to its
// CrawlJobs, Pages, GeneratedFiles, and Schedule.
type Site struct {
	ID          string    `db:"id" json:"id"`
	URL         string    `db:"url" json:"url"`
	Domain      string    `db:"domain" json:"domain"`
	Title       *string   `db:"title" json:"title,omitempty"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
