package crawl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/temoto/robotstxt"
)

// robotsTxtPath is the well-known path for robots.txt files.
const robotsTxtPath = "/robots.txt"

// maxRobotsBodyBytes limits the size of robots.txt responses read.
const maxRobotsBodyBytes = 512 * 1024

// RobotsChecker fetches and caches robots.txt once per host for the
// lifetime of a crawl run (spec §4.2), grounded on the teacher's
// internal/fetcher.RobotsChecker minus its cross-run TTL.
type RobotsChecker struct {
	httpClient *http.Client
	userAgent  string
	mu         sync.RWMutex
	cache      map[string]*robotsEntry
}

type robotsEntry struct {
	data     *robotstxt.RobotsData
	allowAll bool
}

// NewRobotsChecker creates a RobotsChecker for a single crawl run.
func NewRobotsChecker(httpClient *http.Client, userAgent string) *RobotsChecker {
	return &RobotsChecker{
		httpClient: httpClient,
		userAgent:  userAgent,
		cache:      make(map[string]*robotsEntry),
	}
}

// IsAllowed reports whether path is allowed for the given host. Fetch
// failures and non-2xx responses degrade to allow-all.
func (r *RobotsChecker) IsAllowed(ctx context.Context, scheme, host, path string) (bool, error) {
	entry := r.getOrFetch(ctx, scheme, host)
	if entry.allowAll {
		return true, nil
	}
	return entry.data.TestAgent(path, r.userAgent), nil
}

func (r *RobotsChecker) getOrFetch(ctx context.Context, scheme, host string) *robotsEntry {
	host = strings.ToLower(host)

	r.mu.RLock()
	entry, ok := r.cache[host]
	r.mu.RUnlock()
	if ok {
		return entry
	}

	entry = r.fetch(ctx, scheme, host)

	r.mu.Lock()
	r.cache[host] = entry
	r.mu.Unlock()

	return entry
}

func (r *RobotsChecker) fetch(ctx context.Context, scheme, host string) *robotsEntry {
	if scheme == "" {
		scheme = "https"
	}

	body, status, err := r.doFetch(ctx, scheme+"://"+host+robotsTxtPath)
	if err != nil || status < 200 || status >= 300 {
		return &robotsEntry{allowAll: true}
	}

	data, parseErr := robotstxt.FromBytes(body)
	if parseErr != nil {
		return &robotsEntry{allowAll: true}
	}

	return &robotsEntry{data: data}
}

func (r *RobotsChecker) doFetch(ctx context.Context, robotsURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("robots: build request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("robots: fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("robots: read body: %w", err)
	}
	return body, resp.StatusCode, nil
}
