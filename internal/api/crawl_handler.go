package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gocrawl/internal/config/crawler"
	"github.com/jonesrussell/gocrawl/internal/database"
	"github.com/jonesrussell/gocrawl/internal/domain"
	"github.com/jonesrussell/gocrawl/internal/logger"
)

// CrawlHandler implements POST /sites/{id}/crawl and
// GET /sites/{id}/crawl/{job_id} (spec §6).
type CrawlHandler struct {
	sites SiteStore
	jobs  CrawlJobStore
	queue TaskEnqueuer
	log   logger.Interface
}

// NewCrawlHandler creates a CrawlHandler.
func NewCrawlHandler(sites SiteStore, jobs CrawlJobStore, queue TaskEnqueuer, log logger.Interface) *CrawlHandler {
	return &CrawlHandler{sites: sites, jobs: jobs, queue: queue, log: log}
}

// EnqueueCrawlRequest is the POST /sites/{id}/crawl request body.
type EnqueueCrawlRequest struct {
	MaxDepth *int `json:"max_depth"`
	MaxPages *int `json:"max_pages"`
}

// Enqueue handles POST /sites/{id}/crawl: creates a new CrawlJob for an
// existing Site and enqueues its CrawlTask, clamping any caller-supplied
// overrides into the spec §4.2 bounds.
func (h *CrawlHandler) Enqueue(c *gin.Context) {
	siteID := c.Param("id")
	ctx := c.Request.Context()

	site, err := h.sites.GetByID(ctx, siteID)
	if err != nil {
		if errors.Is(err, database.ErrSiteNotFound) {
			respondNotFound(c, "site")
			return
		}
		respondInternalError(c, "failed to look up site")
		return
	}

	var req EnqueueCrawlRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			respondBadRequest(c, "invalid request: "+bindErr.Error())
			return
		}
	}

	maxPages := crawler.DefaultMaxPages
	if req.MaxPages != nil {
		maxPages = crawler.ClampMaxPages(*req.MaxPages)
	}
	maxDepth := crawler.DefaultMaxDepth
	if req.MaxDepth != nil {
		maxDepth = crawler.ClampMaxDepth(*req.MaxDepth)
	}

	job := &domain.CrawlJob{
		SiteID:   site.ID,
		MaxPages: maxPages,
		MaxDepth: maxDepth,
	}
	if createErr := h.jobs.Create(ctx, job); createErr != nil {
		respondInternalError(c, "failed to create crawl job")
		return
	}

	if _, enqErr := h.queue.Enqueue(ctx, job.ID, 0, nil, domain.DefaultMaxAttempts); enqErr != nil {
		respondInternalError(c, "failed to enqueue crawl")
		return
	}

	c.JSON(http.StatusCreated, job)
}

// Get handles GET /sites/{id}/crawl/{job_id}: returns the current CrawlJob
// snapshot (spec §3's monotonic counters reflect the latest persisted
// state).
func (h *CrawlHandler) Get(c *gin.Context) {
	siteID := c.Param("id")
	jobID := c.Param("job_id")

	job, err := h.jobs.GetByID(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, database.ErrCrawlJobNotFound) {
			respondNotFound(c, "crawl job")
			return
		}
		respondInternalError(c, "failed to look up crawl job")
		return
	}
	if job.SiteID != siteID {
		respondNotFound(c, "crawl job")
		return
	}

	c.JSON(http.StatusOK, job)
}
