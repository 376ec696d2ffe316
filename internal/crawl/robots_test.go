package crawl_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gocrawl/internal/crawl"
)

func TestRobotsCheckerDisallowsBlockedPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
	}))
	defer server.Close()

	checker := crawl.NewRobotsChecker(server.Client(), "test-agent/1.0")
	host := strings.TrimPrefix(server.URL, "http://")

	allowed, err := checker.IsAllowed(context.Background(), "http", host, "/private/page")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = checker.IsAllowed(context.Background(), "http", host, "/public/page")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRobotsCheckerCachesPerHost(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
	}))
	defer server.Close()

	checker := crawl.NewRobotsChecker(server.Client(), "test-agent/1.0")
	host := strings.TrimPrefix(server.URL, "http://")

	for i := 0; i < 3; i++ {
		_, err := checker.IsAllowed(context.Background(), "http", host, "/x")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, requests)
}

func TestRobotsCheckerDegradesToAllowAllOnFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	checker := crawl.NewRobotsChecker(server.Client(), "test-agent/1.0")
	host := strings.TrimPrefix(server.URL, "http://")

	allowed, err := checker.IsAllowed(context.Background(), "http", host, "/anything")
	require.NoError(t, err)
	assert.True(t, allowed)
}
