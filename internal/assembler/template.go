package assembler

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonesrussell/gocrawl/internal/domain"
)

// TemplateAssembler deterministically renders llms.txt from categorized
// pages: one section per category in spec §4.3 priority order, pages sorted
// by relevance descending within each section. It is the default when no
// LLM_API_KEY is configured (spec §6, §9).
type TemplateAssembler struct{}

// NewTemplateAssembler creates a TemplateAssembler.
func NewTemplateAssembler() *TemplateAssembler {
	return &TemplateAssembler{}
}

var _ Assembler = (*TemplateAssembler)(nil)

// Assemble implements Assembler.
func (t *TemplateAssembler) Assemble(_ context.Context, siteName, siteURL string, pages []PageSummary) (string, error) {
	byCategory := make(map[string][]PageSummary, len(domain.CategoryOrder))
	for _, p := range pages {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}
	for _, group := range byCategory {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].RelevanceScore > group[j].RelevanceScore
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", siteName)
	fmt.Fprintf(&b, "> %s\n\n", siteURL)

	for _, category := range domain.CategoryOrder {
		group := byCategory[category]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", category)
		for _, p := range group {
			writeEntry(&b, p)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

func writeEntry(b *strings.Builder, p PageSummary) {
	title := p.Title
	if title == "" {
		title = p.URL
	}
	if p.Description != "" {
		fmt.Fprintf(b, "- [%s](%s): %s\n", title, p.URL, p.Description)
		return
	}
	fmt.Fprintf(b, "- [%s](%s)\n", title, p.URL)
}
