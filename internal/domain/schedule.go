package domain

import "time"

// Schedule drives the cron-based recurring crawl for a Site. At most one
// schedule exists per site.
type Schedule struct {
	ID             string     `db:"id" json:"id"`
	SiteID         string     `db:"site_id" json:"site_id"`
	CronExpression string     `db:"cron_expression" json:"cron_expression"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	LastRunAt      *time.Time `db:"last_run_at" json:"last_run_at,omitempty"`
	NextRunAt      *time.Time `db:"next_run_at" json:"next_run_at,omitempty"`
	Timezone       string     `db:"timezone" json:"timezone"`
}
