// Package extract parses fetched HTML into title/description/headings and
// classifies it into a category with a deterministic relevance score
// (spec §4.3), grounded on the teacher's internal/fetcher.ContentExtractor.
package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/gocrawl/internal/crawl"
)

const maxDescriptionRunes = 240

// Extractor implements crawl.Extractor.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

var _ crawl.Extractor = (*Extractor)(nil)

// Extract parses body into title/description/headings, categorizes the
// page, and scores its relevance (spec §4.3).
func (e *Extractor) Extract(
	pageURL string,
	body []byte,
	depth int,
	sitemapPresence bool,
) (crawl.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return crawl.ExtractionResult{}, fmt.Errorf("extract: parse html: %w", err)
	}

	title := extractTitle(doc)
	description := extractDescription(doc)
	headings := extractHeadings(doc)

	parsed, parseErr := url.Parse(pageURL)
	path := ""
	if parseErr == nil {
		path = parsed.Path
	}

	category := Categorize(path)
	relevance := Relevance(category, depth, pathSegments(path), sitemapPresence)

	return crawl.ExtractionResult{
		Title:          title,
		Description:    description,
		Headings:       headings,
		Category:       category,
		RelevanceScore: relevance,
	}, nil
}

// extractTitle follows the spec §4.3 precedence: og:title -> <title> ->
// first <h1>.
func extractTitle(doc *goquery.Document) string {
	if ogTitle, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if trimmed := strings.TrimSpace(ogTitle); trimmed != "" {
			return trimmed
		}
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// extractDescription follows the spec §4.3 precedence: meta[description] ->
// og:description -> first paragraph (<=240 chars).
func extractDescription(doc *goquery.Document) string {
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		if trimmed := strings.TrimSpace(desc); trimmed != "" {
			return trimmed
		}
	}
	if ogDesc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		if trimmed := strings.TrimSpace(ogDesc); trimmed != "" {
			return trimmed
		}
	}

	p := strings.TrimSpace(doc.Find("p").First().Text())
	runes := []rune(p)
	if len(runes) > maxDescriptionRunes {
		return string(runes[:maxDescriptionRunes])
	}
	return p
}

// extractHeadings collects h1-h3 text in document order, trimmed and
// deduplicated (spec §4.3).
func extractHeadings(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var headings []string

	doc.Find("h1, h2, h3").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		headings = append(headings, text)
	})
	return headings
}

func pathSegments(path string) int {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return 0
	}
	return len(strings.Split(trimmed, "/"))
}
