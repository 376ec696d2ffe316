package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/gocrawl/internal/domain"
	"github.com/jonesrussell/gocrawl/internal/extract"
)

func TestRelevanceHigherForHigherWeightCategory(t *testing.T) {
	apiScore := extract.Relevance(domain.CategoryAPIReference, 0, 0, false)
	otherScore := extract.Relevance(domain.CategoryOther, 0, 0, false)
	assert.Greater(t, apiScore, otherScore)
}

func TestRelevanceDecreasesWithDepth(t *testing.T) {
	shallow := extract.Relevance(domain.CategoryDocumentation, 0, 0, false)
	deep := extract.Relevance(domain.CategoryDocumentation, 4, 0, false)
	assert.Greater(t, shallow, deep)
}

func TestRelevanceClampsDepthAndSegmentsBeyondCap(t *testing.T) {
	atCap := extract.Relevance(domain.CategoryDocumentation, 5, 6, true)
	beyondCap := extract.Relevance(domain.CategoryDocumentation, 50, 60, true)
	assert.Equal(t, atCap, beyondCap)
}

func TestRelevanceSitemapPresenceAddsTerm(t *testing.T) {
	without := extract.Relevance(domain.CategoryBlog, 1, 1, false)
	with := extract.Relevance(domain.CategoryBlog, 1, 1, true)
	assert.Greater(t, with, without)
}

func TestRelevanceStaysWithinUnitInterval(t *testing.T) {
	score := extract.Relevance(domain.CategoryAPIReference, 0, 0, true)
	assert.LessOrEqual(t, score, 1.0)
	assert.GreaterOrEqual(t, score, 0.0)
}
