// Package assembler turns categorized Page records into the Markdown
// llms.txt document (spec §4.4, §9 redesign: the core is polymorphic over
// {TemplateAssembler, ExternalLLMAssembler}; the opaque "assembler"
// collaborator spec.md treats as external is implemented here with the
// deterministic variant as default).
package assembler

import "context"

// PageSummary is the subset of a Page record an Assembler needs.
type PageSummary struct {
	URL            string
	Title          string
	Description    string
	Category       string
	RelevanceScore float64
}

// Assembler takes a site's categorized pages and returns the assembled
// llms.txt Markdown document.
type Assembler interface {
	Assemble(ctx context.Context, siteName, siteURL string, pages []PageSummary) (string, error)
}
