// Package crawl implements the bounded-depth, politeness-aware BFS crawler
// (spec §4.2), grounded on the teacher's internal/fetcher package.
package crawl

import (
	"net/url"
	"sort"
	"strings"
)

// trackingParamPrefixes and trackingParamNames are dropped during
// normalization (spec §4.2).
var (
	trackingParamPrefixes = []string{"utm_"}
	trackingParamNames    = map[string]bool{
		"gclid": true,
		"fbclid": true,
	}
)

// Normalize canonicalizes a URL per spec §4.2: lowercase scheme and host,
// strip default port, strip fragment, remove trailing slash on path except
// root, sort query keys, drop tracking parameters. It is idempotent:
// Normalize(Normalize(u)) == Normalize(u) (spec invariant 6).
func Normalize(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	stripDefaultPort(u)

	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimRight(u.Path, "/")
	}
	if u.Path == "" {
		u.Path = "/"
	}

	u.RawQuery = sortedFilteredQuery(u.Query())

	return u.String(), nil
}

func stripDefaultPort(u *url.URL) {
	host := u.Host
	idx := strings.LastIndex(host, ":")
	if idx < 0 {
		return
	}
	port := host[idx+1:]
	isDefault := (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443")
	if isDefault {
		u.Host = host[:idx]
	}
}

func sortedFilteredQuery(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if isTrackingParam(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range values[k] {
			parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(parts, "&")
}

func isTrackingParam(key string) bool {
	lower := strings.ToLower(key)
	if trackingParamNames[lower] {
		return true
	}
	for _, prefix := range trackingParamPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// RegistrableDomain returns the registrable domain used for the in-scope
// link policy (spec §4.2): the last two labels of the host, e.g.
// "docs.example.com" -> "example.com". This is a pragmatic approximation
// (no public-suffix-list lookup), adequate for the core's same-site scoping.
func RegistrableDomain(host string) string {
	host = strings.ToLower(host)
	if idx := strings.LastIndex(host, ":"); idx >= 0 {
		host = host[:idx]
	}
	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return host
	}
	return strings.Join(labels[len(labels)-2:], ".")
}

// SameRegistrableDomain reports whether two hosts share a registrable
// domain, the basis of the in-scope link policy.
func SameRegistrableDomain(a, b string) bool {
	return RegistrableDomain(a) == RegistrableDomain(b)
}
