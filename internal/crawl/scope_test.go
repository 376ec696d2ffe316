package crawl_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gocrawl/internal/crawl"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestInScopeAcceptsSameDomainHTTPLink(t *testing.T) {
	link := mustParse(t, "https://docs.example.com/guide")
	assert.True(t, crawl.InScope("example.com", link))
}

func TestInScopeRejectsDifferentDomain(t *testing.T) {
	link := mustParse(t, "https://example.org/guide")
	assert.False(t, crawl.InScope("example.com", link))
}

func TestInScopeRejectsNonHTTPScheme(t *testing.T) {
	link := mustParse(t, "mailto:person@example.com")
	assert.False(t, crawl.InScope("example.com", link))
}

func TestInScopeRejectsBinaryExtension(t *testing.T) {
	link := mustParse(t, "https://example.com/assets/logo.PNG")
	assert.False(t, crawl.InScope("example.com", link))
}

func TestIsHTMLContentType(t *testing.T) {
	assert.True(t, crawl.IsHTMLContentType("text/html; charset=utf-8"))
	assert.True(t, crawl.IsHTMLContentType("  TEXT/HTML "))
	assert.False(t, crawl.IsHTMLContentType("application/json"))
}
