package changetracker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/gocrawl/internal/changetracker"
)

func TestContentHashStableAndSensitive(t *testing.T) {
	h1 := changetracker.ContentHash("Title", "Desc", []string{"A", "B"})
	h2 := changetracker.ContentHash("Title", "Desc", []string{"A", "B"})
	assert.Equal(t, h1, h2)

	h3 := changetracker.ContentHash("Title", "Desc", []string{"A", "C"})
	assert.NotEqual(t, h1, h3)
}

func TestClassify(t *testing.T) {
	prior := []changetracker.PriorPage{
		{URL: "https://example.com/a", ContentHash: "hash-a"},
		{URL: "https://example.com/b", ContentHash: "hash-b"},
		{URL: "https://example.com/gone", ContentHash: "hash-gone"},
	}
	current := map[string]string{
		"https://example.com/a": "hash-a",
		"https://example.com/b": "hash-b-changed",
		"https://example.com/c": "hash-c",
	}

	result := changetracker.Classify(current, prior)

	assert.Equal(t, changetracker.Unchanged, result["https://example.com/a"])
	assert.Equal(t, changetracker.Updated, result["https://example.com/b"])
	assert.Equal(t, changetracker.Added, result["https://example.com/c"])
	assert.Equal(t, changetracker.Removed, result["https://example.com/gone"])
}

func TestTallyAndPagesChanged(t *testing.T) {
	classifications := map[string]changetracker.Classification{
		"u1": changetracker.Added,
		"u2": changetracker.Updated,
		"u3": changetracker.Unchanged,
		"u4": changetracker.Removed,
		"u5": changetracker.Unchanged,
	}

	counts := changetracker.Tally(classifications)

	assert.Equal(t, 1, counts.Added)
	assert.Equal(t, 1, counts.Updated)
	assert.Equal(t, 2, counts.Unchanged)
	assert.Equal(t, 1, counts.Removed)
	assert.Equal(t, 3, counts.PagesChanged())
}

func TestShouldRegenerate(t *testing.T) {
	assert.True(t, changetracker.ShouldRegenerate(changetracker.Counts{Added: 1}, true))
	assert.False(t, changetracker.ShouldRegenerate(changetracker.Counts{}, true))
	assert.True(t, changetracker.ShouldRegenerate(changetracker.Counts{}, false))
}
