package crawl

import (
	"net/url"
	"strings"
)

// binaryExtensions are pre-filtered before fetch (spec §4.2).
var binaryExtensions = map[string]bool{
	".pdf": true, ".zip": true, ".gz": true, ".tar": true, ".rar": true, ".7z": true,
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".svg": true, ".webp": true, ".ico": true, ".bmp": true,
	".mp3": true, ".wav": true, ".ogg": true, ".flac": true,
	".mp4": true, ".avi": true, ".mov": true, ".webm": true, ".mkv": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".exe": true, ".dmg": true, ".iso": true,
}

// InScope reports whether a candidate link should be added to the frontier:
// same registrable domain as the seed, http(s) scheme only, and not a
// pre-filtered binary extension (spec §4.2).
func InScope(seedHost string, link *url.URL) bool {
	if link.Scheme != "http" && link.Scheme != "https" {
		return false
	}
	if !SameRegistrableDomain(seedHost, link.Host) {
		return false
	}
	return !isBinaryExtension(link.Path)
}

func isBinaryExtension(path string) bool {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return false
	}
	return binaryExtensions[strings.ToLower(path[idx:])]
}

// IsHTMLContentType reports whether a Content-Type header value begins with
// "text/html" (spec §4.2: non-HTML content is skipped and counted).
func IsHTMLContentType(contentType string) bool {
	return strings.HasPrefix(strings.TrimSpace(strings.ToLower(contentType)), "text/html")
}
