package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate64(t *testing.T) {
	assert.Equal(t, "short title", truncate64("short title"))

	exact := strings.Repeat("a", 64)
	assert.Equal(t, exact, truncate64(exact))

	long := strings.Repeat("b", 70)
	got := truncate64(long)
	assert.Len(t, got, 64)
	assert.True(t, strings.HasSuffix(got, "..."))

	// Truncation counts runes, not bytes.
	wide := strings.Repeat("ü", 70)
	assert.Equal(t, strings.Repeat("ü", 61)+"...", truncate64(wide))
}

func TestUploadDate(t *testing.T) {
	assert.Equal(t, "2019-07-16", uploadDate("2019-07-16T14:05:00Z"))
	assert.Equal(t, "2019-07-16", uploadDate("2019-07-16"))
	assert.Equal(t, "bogus", uploadDate("bogus"))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, int64(253), parseDuration("PT4M13S"))
	assert.Equal(t, int64(3600), parseDuration("PT1H"))
	assert.Equal(t, int64(0), parseDuration("not-a-duration"))
}
