package sitemap

import (
	"strconv"

	"github.com/calisto-ai/calisto-site/pkg/domain/model"
)

const unsetStatKey = "unset"

// CalculateStats 条目分布统计，仅用于日志
func CalculateStats(entries []model.SiteURLEntry) model.SitemapStats {
	stats := model.SitemapStats{
		Total:             len(entries),
		Priorities:        make(map[string]int),
		ChangeFrequencies: make(map[string]int),
	}
	for _, e := range entries {
		if len(e.Images) > 0 {
			stats.WithImages++
		}
		if len(e.Videos) > 0 {
			stats.WithVideos++
		}
		if len(e.Alternates) > 0 {
			stats.WithAlternates++
		}

		priority := unsetStatKey
		if e.Priority != nil {
			priority = strconv.FormatFloat(*e.Priority, 'f', -1, 64)
		}
		stats.Priorities[priority]++

		freq := unsetStatKey
		if e.ChangeFrequency != "" {
			freq = string(e.ChangeFrequency)
		}
		stats.ChangeFrequencies[freq]++
	}
	return stats
}
