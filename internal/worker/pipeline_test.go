package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/gocrawl/internal/domain"
)

func TestClassifyPageMarksUnknownURLAsAdded(t *testing.T) {
	assert.Equal(t, domain.PageStatusAdded, classifyPage("hash-a", "", false))
}

func TestClassifyPageMarksChangedHashAsUpdated(t *testing.T) {
	assert.Equal(t, domain.PageStatusUpdated, classifyPage("hash-new", "hash-old", true))
}

func TestClassifyPageMarksSameHashAsUnchanged(t *testing.T) {
	assert.Equal(t, domain.PageStatusUnchanged, classifyPage("hash-a", "hash-a", true))
}

func TestURLKnownReportsPresenceInPriorMap(t *testing.T) {
	prior := map[string]string{"https://example.com/a": "hash-a"}
	assert.True(t, urlKnown(prior, "https://example.com/a"))
	assert.False(t, urlKnown(prior, "https://example.com/b"))
}

func TestStrPtrReturnsNilForEmptyString(t *testing.T) {
	assert.Nil(t, strPtr(""))
}

func TestStrPtrReturnsPointerForNonEmptyString(t *testing.T) {
	ptr := strPtr("hello")
	if assert.NotNil(t, ptr) {
		assert.Equal(t, "hello", *ptr)
	}
}
