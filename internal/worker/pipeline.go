package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/gocrawl/internal/changetracker"
	crawlercfg "github.com/jonesrussell/gocrawl/internal/config/crawler"
	"github.com/jonesrussell/gocrawl/internal/crawl"
	"github.com/jonesrussell/gocrawl/internal/database"
	"github.com/jonesrussell/gocrawl/internal/domain"
	"github.com/jonesrussell/gocrawl/internal/extract"
	"github.com/jonesrussell/gocrawl/internal/logger"
)

// CrawlPipeline resolves a CrawlTask to its Site and CrawlJob, runs the
// crawler, persists Page rows, classifies changes against the prior
// completed run, and updates CrawlJob progress (spec §4.2-§4.4, §4.6).
type CrawlPipeline struct {
	sites    *database.SiteRepository
	jobs     *database.CrawlJobRepository
	pages    *database.PageRepository
	cfg      crawlercfg.Config
	log      logger.Interface
	onChange func(ctx context.Context, job *domain.CrawlJob, counts changetracker.Counts) error
}

// NewCrawlPipeline creates a CrawlPipeline. onChange is invoked after a run
// completes when the assembled document must be regenerated (spec §4.4); it
// is nil-safe for callers not yet wiring the assembler.
func NewCrawlPipeline(
	sites *database.SiteRepository,
	jobs *database.CrawlJobRepository,
	pages *database.PageRepository,
	cfg crawlercfg.Config,
	log logger.Interface,
	onChange func(ctx context.Context, job *domain.CrawlJob, counts changetracker.Counts) error,
) *CrawlPipeline {
	return &CrawlPipeline{sites: sites, jobs: jobs, pages: pages, cfg: cfg, log: log, onChange: onChange}
}

var _ Pipeline = (*CrawlPipeline)(nil)

// Run implements Pipeline.
func (p *CrawlPipeline) Run(ctx context.Context, task *domain.CrawlTask) error {
	job, err := p.jobs.GetByID(ctx, task.JobID)
	if err != nil {
		return fmt.Errorf("pipeline: load job: %w", err)
	}

	site, err := p.sites.GetByID(ctx, job.SiteID)
	if err != nil {
		return fmt.Errorf("pipeline: load site: %w", err)
	}

	if err := p.jobs.MarkRunning(ctx, job.ID); err != nil {
		return fmt.Errorf("pipeline: mark running: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, p.cfg.CrawlSoftCap)
	defer cancel()

	counts, runErr := p.runCrawl(runCtx, site, job)
	if runErr != nil {
		if markErr := p.jobs.MarkFailed(ctx, job.ID, runErr.Error()); markErr != nil {
			p.log.Error("pipeline: mark failed", "job_id", job.ID, "error", markErr.Error())
		}
		return runErr
	}

	if markErr := p.jobs.MarkCompleted(ctx, job.ID); markErr != nil {
		return fmt.Errorf("pipeline: mark completed: %w", markErr)
	}

	// onChange runs only when this run's pages changed (spec §4.4); a run
	// with no changed pages does not regenerate, even when the site has no
	// document yet.
	if p.onChange != nil && counts.PagesChanged() > 0 {
		if err := p.onChange(ctx, job, counts); err != nil {
			p.log.Error("pipeline: regeneration callback failed", "job_id", job.ID, "error", err.Error())
		}
	}

	return nil
}

func (p *CrawlPipeline) runCrawl(ctx context.Context, site *domain.Site, job *domain.CrawlJob) (changetracker.Counts, error) {
	extractor := extract.New()
	crawler := crawl.New(extractor, p.cfg.UserAgent)

	events := make(chan crawl.Event, 64)
	go crawler.Run(ctx, site.URL, crawl.Limits{
		MaxDepth:    job.MaxDepth,
		MaxPages:    job.MaxPages,
		Concurrency: p.cfg.Concurrency,
	}, events)

	prior, err := p.priorPages(ctx, site.ID, job.ID)
	if err != nil {
		return changetracker.Counts{}, err
	}
	priorByURL := make(map[string]string, len(prior))
	for _, pp := range prior {
		priorByURL[pp.URL] = pp.ContentHash
	}

	currentHashes := make(map[string]string)
	var found, crawled, skipped int

	for event := range events {
		switch event.Kind {
		case crawl.EventPageCrawled:
			hash := changetracker.ContentHash(event.Title, event.Description, event.Headings)
			status := classifyPage(hash, priorByURL[event.URL], urlKnown(priorByURL, event.URL))

			if err := p.persistPage(ctx, site, job, event, hash, status); err != nil {
				p.log.Error("pipeline: persist page failed", "url", event.URL, "error", err.Error())
				continue
			}
			crawled++
			currentHashes[event.URL] = hash
		case crawl.EventProgress:
			found, skipped = event.Found, event.Skipped
			if updErr := p.jobs.UpdateCounters(ctx, job.ID, found, crawled, 0, skipped); updErr != nil {
				p.log.Error("pipeline: update counters failed", "job_id", job.ID, "error", updErr.Error())
			}
		case crawl.EventFailed:
			return changetracker.Counts{}, fmt.Errorf("pipeline: crawl failed: %w", event.Err)
		case crawl.EventCompleted:
		}
	}

	classifications := changetracker.Classify(currentHashes, prior)
	counts := changetracker.Tally(classifications)

	if updErr := p.jobs.UpdateCounters(ctx, job.ID, found, crawled, counts.PagesChanged(), skipped); updErr != nil {
		return counts, fmt.Errorf("pipeline: final counters update: %w", updErr)
	}

	return counts, nil
}

func urlKnown(priorByURL map[string]string, url string) bool {
	_, ok := priorByURL[url]
	return ok
}

func classifyPage(hash, priorHash string, known bool) string {
	switch {
	case !known:
		return domain.PageStatusAdded
	case priorHash != hash:
		return domain.PageStatusUpdated
	default:
		return domain.PageStatusUnchanged
	}
}

func (p *CrawlPipeline) persistPage(
	ctx context.Context,
	site *domain.Site,
	job *domain.CrawlJob,
	event crawl.Event,
	hash, status string,
) error {
	now := time.Now()
	page := &domain.Page{
		SiteID:         site.ID,
		CrawlJobID:     job.ID,
		URL:            event.URL,
		Title:          strPtr(event.Title),
		Description:    strPtr(event.Description),
		Headings:       event.Headings,
		Category:       event.Category,
		RelevanceScore: event.RelevanceScore,
		Depth:          event.Depth,
		ContentHash:    hash,
		Status:         status,
		FirstSeenAt:    now,
		LastSeenAt:     now,
	}
	return p.pages.Insert(ctx, page)
}

func (p *CrawlPipeline) priorPages(ctx context.Context, siteID, currentJobID string) ([]changetracker.PriorPage, error) {
	priorJob, err := p.jobs.LatestCompletedForSite(ctx, siteID)
	if err != nil {
		if errors.Is(err, database.ErrCrawlJobNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("pipeline: load prior job: %w", err)
	}
	if priorJob.ID == currentJobID {
		return nil, nil
	}

	rows, err := p.pages.ListByJob(ctx, priorJob.ID)
	if err != nil {
		return nil, fmt.Errorf("pipeline: list prior pages: %w", err)
	}

	prior := make([]changetracker.PriorPage, 0, len(rows))
	for _, row := range rows {
		prior = append(prior, changetracker.PriorPage{URL: row.URL, ContentHash: row.ContentHash})
	}
	return prior, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
