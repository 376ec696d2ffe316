package extract

import (
	"strings"

	"github.com/jonesrussell/gocrawl/internal/domain"
)

// categoryRule pairs a category with the path fragments that signal it.
// Order is the priority order from spec §4.3 (domain.CategoryOrder):
// API Reference > Documentation > Guides > Examples > FAQ > Blog > Changelog
// > Getting Started > About > Core Pages > Other.
var categoryRules = []struct {
	category  string
	fragments []string
}{
	{domain.CategoryAPIReference, []string{"/api", "/reference"}},
	{domain.CategoryDocumentation, []string{"/docs", "/documentation"}},
	{domain.CategoryGuides, []string{"/guide", "/guides", "/tutorial", "/tutorials"}},
	{domain.CategoryExamples, []string{"/example", "/examples", "/sample", "/samples"}},
	{domain.CategoryFAQ, []string{"/faq"}},
	{domain.CategoryBlog, []string{"/blog", "/news"}},
	{domain.CategoryChangelog, []string{"/changelog", "/release", "/releases"}},
	{domain.CategoryGettingStarted, []string{"/getting-started", "/quickstart", "/start"}},
	{domain.CategoryAbout, []string{"/about", "/team", "/company"}},
}

// Categorize maps a URL path to one of the fixed categories (spec §4.3).
// A path of at most one segment that matches no fragment maps to Core Pages.
// Categorize sees only the path, so a seed URL with a deeper path is
// categorized like any other page.
func Categorize(path string) string {
	lower := strings.ToLower(path)

	for _, rule := range categoryRules {
		for _, fragment := range rule.fragments {
			if strings.Contains(lower, fragment) {
				return rule.category
			}
		}
	}

	if pathSegments(path) <= 1 {
		return domain.CategoryCorePages
	}

	return domain.CategoryOther
}
