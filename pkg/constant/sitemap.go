/*
 * @Description: 站点地图协议常量
 * @Date: 2026-10-18 09:12:40
 */
package constant

import "time"

// 协议限制（sitemaps.org 0.9）
const (
	// MaxURLsPerSitemap 单个 <urlset> 允许的最大 URL 数，同时也是单个索引允许的最大 <sitemap> 数
	MaxURLsPerSitemap = 50000
	// MaxSitemapBytes 未压缩文档的最大字节数 (50 MiB)
	MaxSitemapBytes = 50 * 1024 * 1024
	// LimitWarningRatio 超过限制的该比例时给出警告
	LimitWarningRatio = 0.9
)

// XML 命名空间
const (
	NSSitemap = "http://www.sitemaps.org/schemas/sitemap/0.9"
	NSXHTML   = "http://www.w3.org/1999/xhtml"
	NSImage   = "http://www.google.com/schemas/sitemap-image/1.1"
	NSVideo   = "http://www.google.com/schemas/sitemap-video/1.1"
)

// 站点地图路由
const (
	SitemapPath      = "/sitemap.xml"
	SitemapIndexPath = "/sitemap-index.xml"
	SitemapPagesDir  = "/sitemaps"
	RobotsPath       = "/robots.txt"
)

// 缓存
const (
	SitemapCacheTTL  = time.Hour
	RobotsCacheTTL   = 24 * time.Hour
	CacheKeyPrefix   = "calisto:"
	SitemapCacheKey  = CacheKeyPrefix + "sitemap:"
	SitemapCacheMain = SitemapCacheKey + "main"
	SitemapCacheIdx  = SitemapCacheKey + "index"
	SitemapCachePage = SitemapCacheKey + "page:"
	RobotsCacheKey   = CacheKeyPrefix + "robots"
)

// 诊断响应头，供 sitecheck 之类的巡检工具读取，搜索引擎会忽略它们
const (
	HeaderSitemapURLs   = "X-Sitemap-URLs"
	HeaderSitemapCount  = "X-Sitemap-Count"
	HeaderSitemapPage   = "X-Sitemap-Page"
	HeaderTotalPages    = "X-Total-Pages"
	HeaderSitemapType   = "X-Sitemap-Type"
	HeaderSitemapSize   = "X-Sitemap-Size"
	HeaderGenerationMs  = "X-Generation-Time"
	HeaderRobotsTag     = "X-Robots-Tag"
	SitemapCacheControl = "public, max-age=3600, s-maxage=3600"
	RobotsCacheControl  = "public, max-age=86400, s-maxage=86400"
)
