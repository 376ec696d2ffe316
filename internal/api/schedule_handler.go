package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gocrawl/internal/database"
	"github.com/jonesrussell/gocrawl/internal/logger"
	"github.com/jonesrussell/gocrawl/internal/scheduler"
)

// ScheduleHandler implements PUT /sites/{id}/schedule (spec §6).
type ScheduleHandler struct {
	sites     SiteStore
	schedules ScheduleStore
	log       logger.Interface
}

// NewScheduleHandler creates a ScheduleHandler.
func NewScheduleHandler(sites SiteStore, schedules ScheduleStore, log logger.Interface) *ScheduleHandler {
	return &ScheduleHandler{sites: sites, schedules: schedules, log: log}
}

// UpsertScheduleRequest is the PUT /sites/{id}/schedule request body.
type UpsertScheduleRequest struct {
	CronExpression string `json:"cron_expression" binding:"required"`
	Timezone       string `json:"timezone"`
}

// Upsert handles PUT /sites/{id}/schedule: validates the cron expression by
// computing its first next_run_at, then upserts the Schedule row. The
// Scheduler's tick loop (internal/scheduler) picks it up from there.
func (h *ScheduleHandler) Upsert(c *gin.Context) {
	siteID := c.Param("id")

	var req UpsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	if _, err := h.sites.GetByID(ctx, siteID); err != nil {
		if errors.Is(err, database.ErrSiteNotFound) {
			respondNotFound(c, "site")
			return
		}
		respondInternalError(c, "failed to look up site")
		return
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	next, err := scheduler.NextRun(req.CronExpression, timezone, time.Now())
	if err != nil {
		respondBadRequest(c, "invalid cron expression: "+err.Error())
		return
	}

	sched, err := h.schedules.Upsert(ctx, siteID, req.CronExpression, timezone, next)
	if err != nil {
		respondInternalError(c, "failed to save schedule")
		return
	}

	c.JSON(http.StatusOK, sched)
}
