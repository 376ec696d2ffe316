package crawl

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Limits bounds a single crawl run (spec §4.2).
type Limits struct {
	MaxDepth    int
	MaxPages    int
	Concurrency int
}

// ExtractionResult is what an Extractor produces for one fetched page body.
// Defined here (rather than in the extract package) so Crawler can depend on
// it without importing extract, keeping the dependency one-directional.
type ExtractionResult struct {
	Title          string
	Description    string
	Headings       []string
	Category       string
	RelevanceScore float64
}

// Extractor parses a fetched page body into title/description/category/
// relevance (spec §4.3). sitemapPresence reports whether the URL was part
// of the seed sitemap, one of the relevance signals.
type Extractor interface {
	Extract(pageURL string, body []byte, depth int, sitemapPresence bool) (ExtractionResult, error)
}

// Crawler runs one level-synchronous BFS crawl for a site (spec §4.2).
type Crawler struct {
	client    *http.Client
	robots    *RobotsChecker
	limiter   *HostLimiter
	extractor Extractor
	userAgent string
}

// New creates a Crawler for a single run.
func New(extractor Extractor, userAgent string) *Crawler {
	client := NewHTTPClient()
	return &Crawler{
		client:    client,
		robots:    NewRobotsChecker(client, userAgent),
		limiter:   NewHostLimiter(),
		extractor: extractor,
		userAgent: userAgent,
	}
}

// Run executes the crawl and streams events to out until the frontier is
// exhausted, the page cap is reached, or ctx is cancelled. It closes out
// before returning.
func (c *Crawler) Run(ctx context.Context, seedURL string, limits Limits, out chan<- Event) {
	defer close(out)

	seed, err := url.Parse(seedURL)
	if err != nil {
		out <- Event{Kind: EventFailed, Err: err}
		return
	}

	frontier := NewFrontier()
	sitemapSet := c.seedFrontier(ctx, seed, frontier)

	var (
		mu                                     sync.Mutex
		found, crawledCount, changed, skipped  int
		active                                 int
		wg                                     sync.WaitGroup
	)
	found = frontier.Len()

	progressDone := make(chan struct{})
	go c.tickProgress(ctx, progressDone, out, &mu, &found, &crawledCount, &changed, &skipped, limits.MaxPages)
	defer close(progressDone)

	sem := make(chan struct{}, max(1, limits.Concurrency))

	for {
		mu.Lock()
		doneByCap := crawledCount >= limits.MaxPages
		mu.Unlock()
		if doneByCap {
			break
		}

		next, depth, ok := frontier.Next()
		if !ok {
			// The frontier can look empty while fetches already in flight are
			// still running discoverLinks, which will enqueue the next BFS
			// level. Only stop once nothing is left to produce more work;
			// otherwise wait a beat for in-flight fetches to settle and
			// re-poll the frontier.
			mu.Lock()
			idle := active == 0
			mu.Unlock()
			if idle {
				break
			}
			select {
			case <-ctx.Done():
				wg.Wait()
				out <- Event{Kind: EventFailed, Err: ctx.Err()}
				return
			case <-time.After(frontierPollInterval):
			}
			continue
		}
		if depth > limits.MaxDepth {
			continue
		}

		select {
		case <-ctx.Done():
			wg.Wait()
			out <- Event{Kind: EventFailed, Err: ctx.Err()}
			return
		case sem <- struct{}{}:
		}

		mu.Lock()
		active++
		mu.Unlock()

		wg.Add(1)
		go func(pageURL string, pageDepth int) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				mu.Lock()
				active--
				mu.Unlock()
			}()
			c.crawlOne(ctx, seed, pageURL, pageDepth, sitemapSet, limits, frontier, out, &mu, &found, &crawledCount, &skipped)
		}(next, depth)
	}

	wg.Wait()
	out <- Event{Kind: EventCompleted}
}

// frontierPollInterval bounds how long Run waits before re-checking the
// frontier after finding it momentarily empty with fetches still in flight.
const frontierPollInterval = 20 * time.Millisecond

func (c *Crawler) seedFrontier(ctx context.Context, seed *url.URL, frontier *Frontier) map[string]bool {
	urls := FetchSitemapURLs(ctx, c.client, SitemapURLForSite(seed.Scheme, seed.Host), c.userAgent)

	sitemapSet := make(map[string]bool, len(urls)+1)
	seedNormalized, err := Normalize(seed.String())
	if err == nil {
		sitemapSet[seedNormalized] = true
	}

	seeds := []string{seed.String()}
	for _, u := range urls {
		if n, normErr := Normalize(u); normErr == nil {
			sitemapSet[n] = true
			seeds = append(seeds, u)
		}
	}

	normalizedSeeds := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if n, normErr := Normalize(s); normErr == nil {
			link, parseErr := url.Parse(n)
			if parseErr == nil && InScope(seed.Host, link) {
				normalizedSeeds = append(normalizedSeeds, n)
			}
		}
	}
	frontier.Seed(normalizedSeeds)
	return sitemapSet
}

//nolint:revive // many counters: mirrors the teacher's multi-return bookkeeping style
func (c *Crawler) crawlOne(
	ctx context.Context,
	seed *url.URL,
	pageURL string,
	depth int,
	sitemapSet map[string]bool,
	limits Limits,
	frontier *Frontier,
	out chan<- Event,
	mu *sync.Mutex,
	found, crawledCount, skipped *int,
) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		mu.Lock()
		*skipped++
		mu.Unlock()
		return
	}

	if waitErr := c.limiter.Wait(ctx, parsed.Host); waitErr != nil {
		return
	}

	allowed, robotsErr := c.robots.IsAllowed(ctx, parsed.Scheme, parsed.Host, parsed.Path)
	if robotsErr != nil || !allowed {
		mu.Lock()
		*skipped++
		mu.Unlock()
		return
	}

	result, fetchErr := FetchWithRetry(ctx, c.client, pageURL, c.userAgent)
	if fetchErr != nil {
		mu.Lock()
		*skipped++
		mu.Unlock()
		return
	}

	if result.StatusCode >= 300 || !IsHTMLContentType(result.ContentType) {
		mu.Lock()
		*skipped++
		mu.Unlock()
		return
	}

	extraction, extractErr := c.extractor.Extract(pageURL, result.Body, depth, sitemapSet[pageURL])
	if extractErr != nil {
		mu.Lock()
		*skipped++
		mu.Unlock()
		return
	}

	c.discoverLinks(result.Body, seed, pageURL, depth, limits, frontier, mu, found)

	mu.Lock()
	*crawledCount++
	mu.Unlock()

	out <- Event{
		Kind:           EventPageCrawled,
		URL:            pageURL,
		Title:          extraction.Title,
		Description:    extraction.Description,
		Headings:       extraction.Headings,
		Category:       extraction.Category,
		RelevanceScore: extraction.RelevanceScore,
		Depth:          depth,
	}
}

func (c *Crawler) tickProgress(
	ctx context.Context,
	done <-chan struct{},
	out chan<- Event,
	mu *sync.Mutex,
	found, crawled, changed, skipped *int,
	maxPages int,
) {
	const tick = 1 * time.Second
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			mu.Lock()
			evt := Event{Kind: EventProgress, Found: *found, Crawled: *crawled, Changed: *changed, Skipped: *skipped, MaxPages: maxPages}
			mu.Unlock()
			out <- evt
		}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
