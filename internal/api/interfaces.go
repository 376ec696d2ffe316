package api

import (
	"context"
	"time"

	"github.com/jonesrussell/gocrawl/internal/domain"
)

// SiteStore is the Site persistence dependency shared by every handler.
type SiteStore interface {
	Create(ctx context.Context, site *domain.Site) error
	GetByID(ctx context.Context, id string) (*domain.Site, error)
	GetByURL(ctx context.Context, url string) (*domain.Site, error)
}

// CrawlJobStore is the CrawlJob persistence dependency.
type CrawlJobStore interface {
	Create(ctx context.Context, job *domain.CrawlJob) error
	GetByID(ctx context.Context, id string) (*domain.CrawlJob, error)
}

// PageStore is the Page persistence dependency, used by the progress
// stream's poll step (spec §4.7.3).
type PageStore interface {
	ListByJobAfter(ctx context.Context, jobID string, afterID int64) ([]*domain.Page, error)
}

// GeneratedFileStore is the GeneratedFile persistence dependency.
type GeneratedFileStore interface {
	Latest(ctx context.Context, siteID string) (*domain.GeneratedFile, error)
	UpdateContent(ctx context.Context, id, content, contentHash string) error
	History(ctx context.Context, siteID string) ([]*domain.GeneratedFile, error)
}

// ScheduleStore is the Schedule persistence dependency.
type ScheduleStore interface {
	Upsert(ctx context.Context, siteID, cronExpr, timezone string, nextRunAt time.Time) (*domain.Schedule, error)
	GetBySiteID(ctx context.Context, siteID string) (*domain.Schedule, error)
}

// TaskEnqueuer is the Task Queue's enqueue operation, shared by the site and
// crawl handlers (spec §4.1).
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, jobID string, priority int, idempotencyKey *string, maxAttempts int) (*domain.CrawlTask, error)
}
