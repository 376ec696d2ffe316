package domain

import "time"

// CrawlJob status values (spec §3).
const (
	CrawlJobStatusPending   = "pending"
	CrawlJobStatusRunning   = "running"
	CrawlJobStatusCompleted = "completed"
	CrawlJobStatusFailed    = "failed"
)

// CrawlJob tracks one crawl run of a Site. Counters are monotonically
// non-decreasing within a run.
type CrawlJob struct {
	ID            string     `db:"id" json:"id"`
	SiteID        string     `db:"site_id" json:"site_id"`
	Status        string     `db:"status" json:"status"`
	PagesFound    int        `db:"pages_found" json:"pages_found"`
	PagesCrawled  int        `db:"pages_crawled" json:"pages_crawled"`
	PagesChanged  int        `db:"pages_changed" json:"pages_changed"`
	PagesSkipped  int        `db:"pages_skipped" json:"pages_skipped"`
	MaxPages      int        `db:"max_pages" json:"max_pages"`
	MaxDepth      int        `db:"max_depth" json:"max_depth"`
	StartedAt     *time.Time `db:"started_at" json:"started_at,omitempty"`
	FinishedAt    *time.Time `db:"finished_at" json:"finished_at,omitempty"`
	ErrorMessage  *string    `db:"error_message" json:"error_message,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// IsTerminal reports whether the job has finished, one way or another.
func (j *CrawlJob) IsTerminal() bool {
	return j.Status == CrawlJobStatusCompleted || j.Status == CrawlJobStatusFailed
}
