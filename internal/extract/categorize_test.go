package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/gocrawl/internal/domain"
	"github.com/jonesrussell/gocrawl/internal/extract"
)

func TestCategorizeMatchesPathFragments(t *testing.T) {
	cases := map[string]string{
		"/api/v1/users":      domain.CategoryAPIReference,
		"/docs/getting-going": domain.CategoryDocumentation,
		"/guides/setup":       domain.CategoryGuides,
		"/examples/basic":     domain.CategoryExamples,
		"/faq":                domain.CategoryFAQ,
		"/blog/2026-launch":   domain.CategoryBlog,
		"/changelog":          domain.CategoryChangelog,
		"/quickstart":         domain.CategoryGettingStarted,
		"/about":              domain.CategoryAbout,
	}
	for path, want := range cases {
		assert.Equal(t, want, extract.Categorize(path), "path %s", path)
	}
}

func TestCategorizeRootAndShallowPathsAreCorePages(t *testing.T) {
	assert.Equal(t, domain.CategoryCorePages, extract.Categorize("/"))
	assert.Equal(t, domain.CategoryCorePages, extract.Categorize("/pricing"))
}

func TestCategorizeDeepUnmatchedPathIsOther(t *testing.T) {
	assert.Equal(t, domain.CategoryOther, extract.Categorize("/some/deep/unmatched/path"))
}

func TestCategorizeIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, domain.CategoryAPIReference, extract.Categorize("/API/Reference"))
}
