package sitemap

import (
	"github.com/calisto-ai/calisto-site/pkg/constant"
	"github.com/calisto-ai/calisto-site/pkg/domain/model"
)

// ChunkURLs 按顺序切分为最多 size 条的分页，Index 从 1 开始。size <= 0 时使用协议上限。
// 不做任何校验。
func ChunkURLs(entries []model.SiteURLEntry, size int) []model.DocumentChunk {
	if size <= 0 {
		size = constant.MaxURLsPerSitemap
	}
	chunks := make([]model.DocumentChunk, 0, (len(entries)+size-1)/size)
	for start := 0; start < len(entries); start += size {
		end := min(start+size, len(entries))
		chunks = append(chunks, model.DocumentChunk{
			Index:   start/size + 1,
			Entries: entries[start:end:end],
		})
	}
	return chunks
}

// PageCount 与 ChunkURLs 返回的分页数一致
func PageCount(total, size int) int {
	if size <= 0 {
		size = constant.MaxURLsPerSitemap
	}
	return (total + size - 1) / size
}
