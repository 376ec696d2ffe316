package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gocrawl/internal/database"
	"github.com/jonesrussell/gocrawl/internal/domain"
	"github.com/jonesrussell/gocrawl/internal/logger"
)

const (
	streamPollInterval      = 1 * time.Second
	streamKeepaliveInterval = 15 * time.Second
)

// StreamHandler implements GET /sites/{id}/crawl/{job_id}/stream (spec
// §4.7): since the Worker and API run in separate processes, it derives
// every event from persisted state rather than an in-memory bus.
type StreamHandler struct {
	jobs  CrawlJobStore
	pages PageStore
	log   logger.Interface
}

// NewStreamHandler creates a StreamHandler.
func NewStreamHandler(jobs CrawlJobStore, pages PageStore, log logger.Interface) *StreamHandler {
	return &StreamHandler{jobs: jobs, pages: pages, log: log}
}

// streamFrame is the JSON payload of one `event: message` SSE frame,
// discriminated by Type per spec §6.
type streamFrame struct {
	Type string `json:"type"`

	URL            string   `json:"url,omitempty"`
	Title          string   `json:"title,omitempty"`
	Description    string   `json:"description,omitempty"`
	Category       string   `json:"category,omitempty"`
	RelevanceScore float64  `json:"relevance_score,omitempty"`
	Depth          int      `json:"depth,omitempty"`
	Headings       []string `json:"headings,omitempty"`

	PagesFound   int `json:"pages_found,omitempty"`
	PagesCrawled int `json:"pages_crawled,omitempty"`
	PagesChanged int `json:"pages_changed,omitempty"`
	PagesSkipped int `json:"pages_skipped,omitempty"`

	Error string `json:"error,omitempty"`
}

// Stream handles GET /sites/{id}/crawl/{job_id}/stream.
func (h *StreamHandler) Stream(c *gin.Context) {
	siteID := c.Param("id")
	jobID := c.Param("job_id")
	ctx := c.Request.Context()

	job, err := h.jobs.GetByID(ctx, jobID)
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

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	// Step 1: replay every persisted page, oldest first. Page.id is a
	// monotonic identity column assigned in insertion order (not a UUID), so
	// the zero value sorts before every real id and ListByJobAfter degenerates
	// to "all pages for this job".
	var lastSeenID int64
	pages, err := h.pages.ListByJobAfter(ctx, jobID, lastSeenID)
	if err != nil {
		respondInternalError(c, "failed to replay pages")
		return
	}
	for _, p := range pages {
		writeSSE(c, pageCrawledFrame(p))
		lastSeenID = p.ID
	}

	// Step 2: initial progress snapshot.
	writeSSE(c, progressFrame(job))
	lastCounters := counterSnapshot(job)

	if job.IsTerminal() {
		writeSSE(c, terminalFrame(job))
		return
	}

	pollTicker := time.NewTicker(streamPollInterval)
	defer pollTicker.Stop()
	keepalive := time.NewTicker(streamKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-keepalive.C:
			c.SSEvent("message", map[string]string{"type": "heartbeat"})
			c.Writer.Flush()
		case <-pollTicker.C:
			newPages, pollErr := h.pages.ListByJobAfter(ctx, jobID, lastSeenID)
			if pollErr != nil {
				h.log.Error("stream: poll pages failed", "job_id", jobID, "error", pollErr.Error())
				continue
			}
			for _, p := range newPages {
				writeSSE(c, pageCrawledFrame(p))
				lastSeenID = p.ID
			}

			current, getErr := h.jobs.GetByID(ctx, jobID)
			if getErr != nil {
				h.log.Error("stream: reload job failed", "job_id", jobID, "error", getErr.Error())
				continue
			}
			if snap := counterSnapshot(current); snap != lastCounters {
				writeSSE(c, progressFrame(current))
				lastCounters = snap
			}

			if current.IsTerminal() {
				writeSSE(c, terminalFrame(current))
				return
			}
		}
	}
}

type counters [4]int

func counterSnapshot(job *domain.CrawlJob) counters {
	return counters{job.PagesFound, job.PagesCrawled, job.PagesChanged, job.PagesSkipped}
}

func pageCrawledFrame(p *domain.Page) streamFrame {
	title, description := "", ""
	if p.Title != nil {
		title = *p.Title
	}
	if p.Description != nil {
		description = *p.Description
	}
	return streamFrame{
		Type:           "page_crawled",
		URL:            p.URL,
		Title:          title,
		Description:    description,
		Category:       p.Category,
		RelevanceScore: p.RelevanceScore,
		Depth:          p.Depth,
		Headings:       p.Headings,
	}
}

func progressFrame(job *domain.CrawlJob) streamFrame {
	return streamFrame{
		Type:         "progress",
		PagesFound:   job.PagesFound,
		PagesCrawled: job.PagesCrawled,
		PagesChanged: job.PagesChanged,
		PagesSkipped: job.PagesSkipped,
	}
}

func terminalFrame(job *domain.CrawlJob) streamFrame {
	frame := streamFrame{Type: "completed"}
	if job.Status == domain.CrawlJobStatusFailed {
		frame.Type = "failed"
		if job.ErrorMessage != nil {
			frame.Error = *job.ErrorMessage
		}
	}
	return frame
}

func writeSSE(c *gin.Context, frame streamFrame) {
	c.SSEvent("message", frame)
	c.Writer.Flush()
}
