package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gocrawl/internal/config/crawler"
	"github.com/jonesrussell/gocrawl/internal/crawl"
	"github.com/jonesrussell/gocrawl/internal/database"
	"github.com/jonesrussell/gocrawl/internal/domain"
	"github.com/jonesrussell/gocrawl/internal/logger"
)

// SitesHandler implements POST /sites (spec §6).
type SitesHandler struct {
	sites SiteStore
	jobs  CrawlJobStore
	queue TaskEnqueuer
	log   logger.Interface
}

// NewSitesHandler creates a SitesHandler.
func NewSitesHandler(sites SiteStore, jobs CrawlJobStore, queue TaskEnqueuer, log logger.Interface) *SitesHandler {
	return &SitesHandler{sites: sites, jobs: jobs, queue: queue, log: log}
}

// CreateSiteRequest is the POST /sites request body.
type CreateSiteRequest struct {
	URL string `json:"url" binding:"required"`
}

// CreateSiteResponse pairs the registered site with the crawl job enqueued
// for it, or the site alone when it was already registered.
type CreateSiteResponse struct {
	Site   *domain.Site     `json:"site"`
	Job    *domain.CrawlJob `json:"crawl_job,omitempty"`
	Reused bool             `json:"reused"`
}

// Create handles POST /sites: registers a site and enqueues its initial
// crawl. A repeated registration of an already-known URL returns the
// existing site without enqueuing a second crawl.
func (h *SitesHandler) Create(c *gin.Context) {
	var req CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	normalized, err := crawl.Normalize(req.URL)
	if err != nil {
		respondBadRequest(c, "invalid url: "+err.Error())
		return
	}

	ctx := c.Request.Context()

	if existing, getErr := h.sites.GetByURL(ctx, normalized); getErr == nil {
		c.JSON(http.StatusOK, CreateSiteResponse{Site: existing, Reused: true})
		return
	} else if !errors.Is(getErr, database.ErrSiteNotFound) {
		respondInternalError(c, "failed to look up site")
		return
	}

	parsed, err := url.Parse(normalized)
	if err != nil {
		respondBadRequest(c, "invalid url: "+err.Error())
		return
	}

	site := &domain.Site{
		URL:    normalized,
		Domain: crawl.RegistrableDomain(parsed.Host),
	}
	if err := h.sites.Create(ctx, site); err != nil {
		respondInternalError(c, "failed to create site")
		return
	}

	job := &domain.CrawlJob{
		SiteID:   site.ID,
		MaxPages: crawler.DefaultMaxPages,
		MaxDepth: crawler.DefaultMaxDepth,
	}
	if err := h.jobs.Create(ctx, job); err != nil {
		respondInternalError(c, "failed to create crawl job")
		return
	}

	if _, err := h.queue.Enqueue(ctx, job.ID, 0, nil, domain.DefaultMaxAttempts); err != nil {
		respondInternalError(c, "failed to enqueue crawl")
		return
	}

	c.JSON(http.StatusCreated, CreateSiteResponse{Site: site, Job: job})
}
