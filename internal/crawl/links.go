package crawl

import (
	"bytes"
	"net/url"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// discoverLinks parses body for <a href> targets, normalizes and
// scope-filters each, and enqueues the in-scope ones at depth+1.
func (c *Crawler) discoverLinks(
	body []byte,
	seed *url.URL,
	pageURL string,
	depth int,
	limits Limits,
	frontier *Frontier,
	mu *sync.Mutex,
	found *int,
) {
	if depth+1 > limits.MaxDepth {
		return
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}

		normalized, err := Normalize(resolved.String())
		if err != nil {
			return
		}
		link, err := url.Parse(normalized)
		if err != nil || !InScope(seed.Host, link) {
			return
		}

		mu.Lock()
		added := frontier.Add(normalized, depth+1)
		if added {
			*found++
		}
		mu.Unlock()
	})
}
