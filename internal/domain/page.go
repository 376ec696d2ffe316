package domain

import "time"

// Page status values describing its relationship to the prior successful
// crawl (spec §4.4).
const (
	PageStatusAdded     = "added"
	PageStatusUpdated   = "updated"
	PageStatusUnchanged = "unchanged"
	PageStatusRemoved   = "removed"
)

// Category is the fixed set a Page is classified into (spec §4.3).
const (
	CategoryGettingStarted = "Getting Started"
	CategoryDocumentation  = "Documentation"
	CategoryAPIReference   = "API Reference"
	CategoryGuides         = "Guides"
	CategoryExamples       = "Examples"
	CategoryFAQ            = "FAQ"
	CategoryBlog           = "Blog"
	CategoryChangelog      = "Changelog"
	CategoryAbout          = "About"
	CategoryCorePages      = "Core Pages"
	CategoryOther          = "Other"
)

// CategoryOrder is the spec §4.3 priority order, used both to break ties
// when categorizing a page and to order sections of the assembled document:
// API Reference > Documentation > Guides > Examples > FAQ > Blog > Changelog
// > Getting Started > About > Core Pages > Other.
var CategoryOrder = []string{
	CategoryAPIReference,
	CategoryDocumentation,
	CategoryGuides,
	CategoryExamples,
	CategoryFAQ,
	CategoryBlog,
	CategoryChangelog,
	CategoryGettingStarted,
	CategoryAbout,
	CategoryCorePages,
	CategoryOther,
}

// Page is one crawled URL as of a particular CrawlJob. (site_id, url)
// identifies a logical page across runs; rows are physically partitioned
// per job for history traversal. ID is a monotonically-increasing identity
// column (not a UUID): the Progress Stream cursors on it (spec §4.7.3), which
// requires insertion order, not just uniqueness.
type Page struct {
	ID             int64     `db:"id" json:"id"`
	SiteID         string    `db:"site_id" json:"site_id"`
	CrawlJobID     string    `db:"crawl_job_id" json:"crawl_job_id"`
	URL            string    `db:"url" json:"url"`
	Title          *string   `db:"title" json:"title,omitempty"`
	Description    *string   `db:"description" json:"description,omitempty"`
	Headings       []string  `db:"headings" json:"headings"`
	Category       string    `db:"category" json:"category"`
	RelevanceScore float64   `db:"relevance_score" json:"relevance_score"`
	Depth          int       `db:"depth" json:"depth"`
	ContentHash    string    `db:"content_hash" json:"content_hash"`
	Status         string    `db:"status" json:"status"`
	FirstSeenAt    time.Time `db:"first_seen_at" json:"first_seen_at"`
	LastSeenAt     time.Time `db:"last_seen_at" json:"last_seen_at"`
}
