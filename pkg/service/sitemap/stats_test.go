package sitemap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calisto-ai/calisto-site/pkg/domain/model"
)

func TestCalculateStats(t *testing.T) {
	entries, err := newTestCollector(fourServices()).AllURLs(context.Background())
	require.NoError(t, err)
	entries = append(entries, model.SiteURLEntry{
		URL:    testBase + "/galeria",
		Images: []model.Image{{URL: testBase + "/img/a.png"}},
	})

	stats := CalculateStats(entries)
	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, 1, stats.WithImages)
	assert.Zero(t, stats.WithVideos)
	assert.Equal(t, 4, stats.Priorities["0.6"])
	assert.Equal(t, 1, stats.Priorities["1"])
	assert.Equal(t, 1, stats.Priorities[unsetStatKey])
	assert.Equal(t, 6, stats.ChangeFrequencies[string(model.ChangeFreqMonthly)])
	assert.Equal(t, 1, stats.ChangeFrequencies[unsetStatKey])
}
