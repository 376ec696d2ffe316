// Package api implements the llms.txt generator's HTTP surface (spec §6),
// grounded on the teacher's internal/api/api.go router bootstrap.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gocrawl/internal/config"
	"github.com/jonesrussell/gocrawl/internal/logger"
)

const readHeaderTimeout = 10 * time.Second

// ShutdownTimeout bounds how long `service httpd` waits for in-flight
// requests (notably open SSE streams) to drain on SIGINT/SIGTERM.
const ShutdownTimeout = 30 * time.Second

// Dependencies aggregates everything the route handlers need. Each field is
// satisfied by a concrete database.*Repository, but expressed as a narrow
// interface so handlers are testable against fakes, matching the teacher's
// SearchManager-style handler dependencies.
type Dependencies struct {
	Sites     SiteStore
	Jobs      CrawlJobStore
	Pages     PageStore
	Files     GeneratedFileStore
	Schedules ScheduleStore
	Queue     TaskEnqueuer
}

// SetupRouter creates and configures the Gin router with every route from
// spec §6's external-interfaces table plus the supplemental history/edit
// endpoints recovered in SPEC_FULL.md §6.
func SetupRouter(log logger.Interface, deps Dependencies, cfg config.Interface) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sites := NewSitesHandler(deps.Sites, deps.Jobs, deps.Queue, log)
	crawls := NewCrawlHandler(deps.Sites, deps.Jobs, deps.Queue, log)
	stream := NewStreamHandler(deps.Jobs, deps.Pages, log)
	docs := NewLLMsTxtHandler(deps.Sites, deps.Files, log)
	schedules := NewScheduleHandler(deps.Sites, deps.Schedules, log)

	router.POST("/sites", sites.Create)
	router.POST("/sites/:id/crawl", crawls.Enqueue)
	router.GET("/sites/:id/crawl/:job_id", crawls.Get)
	router.GET("/sites/:id/crawl/:job_id/stream", stream.Stream)
	router.GET("/sites/:id/llms-txt", docs.Get)
	router.PUT("/sites/:id/llms-txt", docs.Update)
	router.GET("/sites/:id/llms-txt/history", docs.History)
	router.PUT("/sites/:id/schedule", schedules.Upsert)

	return router
}

// StartHTTPServer builds the *http.Server for `service httpd` (SPEC_FULL.md
// §6 supplemental CLI surface); the caller is responsible for
// ListenAndServe + graceful shutdown.
func StartHTTPServer(log logger.Interface, deps Dependencies, cfg config.Interface) *http.Server {
	router := SetupRouter(log, deps, cfg)
	serverCfg := cfg.GetServerConfig()

	return &http.Server{
		Addr:              serverCfg.Address,
		Handler:           router,
		ReadTimeout:       serverCfg.ReadTimeout,
		WriteTimeout:      serverCfg.WriteTimeout,
		IdleTimeout:       serverCfg.IdleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

func loggingMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		log.Info("http request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// corsMiddleware allows browser-based editor frontends (spec §9's editor
// UI) to call the API cross-origin. Auth is explicitly out of scope (spec
// §1), so unlike the teacher's SecurityMiddleware this carries no API-key
// or rate-limit gate.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
