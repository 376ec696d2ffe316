package extract

import "github.com/jonesrussell/gocrawl/internal/domain"

// categoryWeight is the fixed per-category weight table (spec §4.3).
var categoryWeight = map[string]float64{
	domain.CategoryAPIReference:   1.0,
	domain.CategoryDocumentation:  0.9,
	domain.CategoryGuides:         0.85,
	domain.CategoryGettingStarted: 0.85,
	domain.CategoryExamples:       0.75,
	domain.CategoryFAQ:            0.7,
	domain.CategoryCorePages:      0.7,
	domain.CategoryChangelog:      0.5,
	domain.CategoryAbout:          0.4,
	domain.CategoryBlog:           0.4,
	domain.CategoryOther:          0.2,
}

const (
	weightCategory  = 0.40
	weightDepth     = 0.20
	weightSegments  = 0.20
	weightSitemap   = 0.20
	depthCap        = 5
	segmentsCap     = 6
)

// Relevance computes the deterministic linear-combination relevance score
// in [0,1] (spec §4.3).
func Relevance(category string, depth, segments int, sitemapPresence bool) float64 {
	cw := categoryWeight[category]

	d := depth
	if d > depthCap {
		d = depthCap
	}
	s := segments
	if s > segmentsCap {
		s = segmentsCap
	}

	var sitemapTerm float64
	if sitemapPresence {
		sitemapTerm = 1.0
	}

	return weightCategory*cw +
		weightDepth*(1-float64(d)/depthCap) +
		weightSegments*(1-float64(s)/segmentsCap) +
		weightSitemap*sitemapTerm
}
