package crawl

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
)

// maxSitemapBodyBytes bounds how much of a sitemap.xml response is read.
const maxSitemapBodyBytes = 5 * 1024 * 1024

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// FetchSitemapURLs fetches and parses the sitemap at sitemapURL (the full
// sitemap.xml URL, not the site's base URL), returning the listed locations. A missing or malformed sitemap yields an
// empty slice and no error (seeding falls back to just the site URL).
func FetchSitemapURLs(ctx context.Context, client *http.Client, sitemapURL, userAgent string) []string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, http.NoBody)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSitemapBodyBytes))
	if err != nil {
		return nil
	}

	var set sitemapURLSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil
	}

	urls := make([]string, 0, len(set.URLs))
	for _, u := range set.URLs {
		if u.Loc != "" {
			urls = append(urls, u.Loc)
		}
	}
	return urls
}

// SitemapURLForSite returns the conventional sitemap.xml location for a
// site's base URL.
func SitemapURLForSite(scheme, host string) string {
	return fmt.Sprintf("%s://%s/sitemap.xml", scheme, host)
}
