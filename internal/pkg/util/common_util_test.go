package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementRate(t *testing.T) {
	rate := EngagementRate(10000, 500, 50, 25)
	require.NotNil(t, rate)
	assert.Equal(t, 5.75, *rate)

	// 不能整除时四舍五入到两位
	rate = EngagementRate(3, 1, 0, 0)
	require.NotNil(t, rate)
	assert.Equal(t, 33.33, *rate)

	assert.Nil(t, EngagementRate(0, 100, 100, 100))
	assert.Nil(t, EngagementRate(-1, 0, 0, 0))

	rate = EngagementRate(100, 0, 0, 0)
	require.NotNil(t, rate)
	assert.Equal(t, 0.0, *rate)
}

func TestExtractTags(t *testing.T) {
	tags := ExtractTags("launch day #mistakes #howto and again #mistakes")
	assert.Equal(t, []string{"mistakes", "howto"}, tags)

	assert.Empty(t, ExtractTags("no tags here"))
}
