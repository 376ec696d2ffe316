package worker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/jonesrussell/gocrawl/internal/assembler"
	"github.com/jonesrussell/gocrawl/internal/changetracker"
	"github.com/jonesrussell/gocrawl/internal/database"
	"github.com/jonesrussell/gocrawl/internal/domain"
)

// Regenerator assembles and persists the llms.txt document for a site after
// a crawl run changes pages (spec §4.4).
type Regenerator struct {
	sites     *database.SiteRepository
	pages     *database.PageRepository
	files     *database.GeneratedFileRepository
	assembler assembler.Assembler
}

// NewRegenerator creates a Regenerator.
func NewRegenerator(
	sites *database.SiteRepository,
	pages *database.PageRepository,
	files *database.GeneratedFileRepository,
	asm assembler.Assembler,
) *Regenerator {
	return &Regenerator{sites: sites, pages: pages, files: files, assembler: asm}
}

// Regenerate implements the CrawlPipeline's onChange callback: it loads the
// job's current pages, assembles a fresh document, and appends it as a new
// GeneratedFile version (spec §3, §4.4).
func (r *Regenerator) Regenerate(ctx context.Context, job *domain.CrawlJob, _ changetracker.Counts) error {
	site, err := r.sites.GetByID(ctx, job.SiteID)
	if err != nil {
		return fmt.Errorf("regenerate: load site: %w", err)
	}

	pages, err := r.pages.ListByJob(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("regenerate: list pages: %w", err)
	}

	summaries := make([]assembler.PageSummary, 0, len(pages))
	for _, p := range pages {
		summaries = append(summaries, assembler.PageSummary{
			URL:            p.URL,
			Title:          strVal(p.Title),
			Description:    strVal(p.Description),
			Category:       p.Category,
			RelevanceScore: p.RelevanceScore,
		})
	}

	content, err := r.assembler.Assemble(ctx, site.Domain, site.URL, summaries)
	if err != nil {
		return fmt.Errorf("regenerate: assemble: %w", err)
	}

	jobID := job.ID
	sum := sha256.Sum256([]byte(content))
	gf := &domain.GeneratedFile{
		SiteID:      site.ID,
		CrawlJobID:  &jobID,
		Content:     content,
		ContentHash: hex.EncodeToString(sum[:]),
	}
	if err := r.files.Create(ctx, gf); err != nil {
		return fmt.Errorf("regenerate: create generated file: %w", err)
	}
	return nil
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
