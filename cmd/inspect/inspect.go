// Package inspect implements the `service inspect` subcommand: a read-only
// operator view of a site's latest completed crawl job and its pages (SPEC_FULL.md §6
// supplemental CLI surface), grounded on the teacher's cmd/sources list
// table-rendering style.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/gocrawl/internal/config"
	"github.com/jonesrussell/gocrawl/internal/crawl"
	"github.com/jonesrussell/gocrawl/internal/database"
	"github.com/jonesrussell/gocrawl/internal/domain"
	"github.com/jonesrussell/gocrawl/internal/logger"
)

var cfgFile string

// Command returns the `inspect` cobra subcommand and its `site` child.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect crawl state for operators",
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to an optional YAML config file")
	cmd.AddCommand(siteCommand())
	return cmd
}

func siteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "site <url>",
		Short: "Print the latest completed CrawlJob/Page snapshot for a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSite(args[0])
		},
	}
}

func runSite(rawURL string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if validateErr := cfg.Validate(config.CommandInspect); validateErr != nil {
		return fmt.Errorf("invalid config: %w", validateErr)
	}

	log, err := logger.New(&logger.Config{Level: logger.InfoLevel, Encoding: "console", Development: true})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	db, err := database.NewPostgresConnection(cfg.GetDatabaseConfig().URL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	normalized, err := crawl.Normalize(rawURL)
	if err != nil {
		return fmt.Errorf("normalize url: %w", err)
	}

	sites := database.NewSiteRepository(db)
	site, err := sites.GetByURL(ctx, normalized)
	if err != nil {
		if errors.Is(err, database.ErrSiteNotFound) {
			log.Info("site not registered", "url", normalized)
			return nil
		}
		return fmt.Errorf("load site: %w", err)
	}

	jobs := database.NewCrawlJobRepository(db)
	job, err := jobs.LatestCompletedForSite(ctx, site.ID)
	if err != nil {
		if errors.Is(err, database.ErrCrawlJobNotFound) {
			log.Info("no completed crawl job yet", "site_id", site.ID)
			return nil
		}
		return fmt.Errorf("load latest crawl job: %w", err)
	}

	printJobSummary(site, job)

	pages := database.NewPageRepository(db)
	rows, err := pages.ListByJob(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("list pages: %w", err)
	}
	printPageTable(rows)

	return nil
}

func printJobSummary(site *domain.Site, job *domain.CrawlJob) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Site", "Job ID", "Status", "Found", "Crawled", "Changed", "Skipped"})
	t.AppendRow(table.Row{site.URL, job.ID, job.Status, job.PagesFound, job.PagesCrawled, job.PagesChanged, job.PagesSkipped})
	t.Render()
}

func printPageTable(pages []*domain.Page) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"URL", "Category", "Relevance", "Status", "Depth"})
	for _, p := range pages {
		t.AppendRow(table.Row{p.URL, p.Category, p.RelevanceScore, p.Status, p.Depth})
	}
	t.Render()
}
