package crawl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gocrawl/internal/crawl"
)

func TestNormalizeLowercasesSchemeAndHost(t *testing.T) {
	out, err := crawl.Normalize("HTTPS://Example.COM/Path")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/Path", out)
}

func TestNormalizeStripsDefaultPort(t *testing.T) {
	out, err := crawl.Normalize("https://example.com:443/path")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path", out)

	out, err = crawl.Normalize("http://example.com:80/path")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/path", out)
}

func TestNormalizeStripsFragmentAndTrailingSlash(t *testing.T) {
	out, err := crawl.Normalize("https://example.com/path/#section")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path", out)
}

func TestNormalizeKeepsRootSlash(t *testing.T) {
	out, err := crawl.Normalize("https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", out)
}

func TestNormalizeSortsQueryAndDropsTrackingParams(t *testing.T) {
	out, err := crawl.Normalize("https://example.com/path?b=2&utm_source=x&a=1&gclid=y")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path?a=1&b=2", out)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := "HTTPS://Example.COM:443/Path/?utm_campaign=x&b=2&a=1#frag"
	once, err := crawl.Normalize(raw)
	require.NoError(t, err)
	twice, err := crawl.Normalize(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestRegistrableDomain(t *testing.T) {
	assert.Equal(t, "example.com", crawl.RegistrableDomain("docs.example.com"))
	assert.Equal(t, "example.com", crawl.RegistrableDomain("example.com"))
	assert.Equal(t, "example.com", crawl.RegistrableDomain("EXAMPLE.com:8080"))
}

func TestSameRegistrableDomain(t *testing.T) {
	assert.True(t, crawl.SameRegistrableDomain("docs.example.com", "blog.example.com"))
	assert.False(t, crawl.SameRegistrableDomain("example.com", "example.org"))
}
