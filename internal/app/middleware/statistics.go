/*
 * @Description: 抓取统计中间件，记录搜索引擎对站点地图和 robots.txt 的访问
 * @Date: 2026-10-18 15:06:19
 */
package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// knownCrawlers User-Agent 片段到爬虫名称
var knownCrawlers = []struct{ token, name string }{
	{"googlebot", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"duckduckbot", "DuckDuckBot"},
	{"yandex", "YandexBot"},
	{"baiduspider", "Baiduspider"},
	{"applebot", "Applebot"},
}

// CrawlerName 识别常见搜索引擎爬虫，未知时返回空字符串
func CrawlerName(userAgent string) string {
	ua := strings.ToLower(userAgent)
	for _, c := range knownCrawlers {
		if strings.Contains(ua, c.token) {
			return c.name
		}
	}
	if strings.Contains(ua, "bot") || strings.Contains(ua, "crawler") || strings.Contains(ua, "spider") {
		return "other"
	}
	return ""
}

// isCrawlPath 只统计站点地图相关路径
func isCrawlPath(path string) bool {
	return path == "/robots.txt" ||
		strings.HasPrefix(path, "/sitemap") ||
		strings.HasPrefix(path, "/sitemaps/")
}

// CrawlerStatistics 记录每次抓取的状态码、耗时和响应大小
func CrawlerStatistics(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(c *gin.Context) {
		if !isCrawlPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		crawler := CrawlerName(c.Request.UserAgent())
		if crawler == "" {
			crawler = "browser"
		}
		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "crawl",
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"crawler", crawler,
			"bytes", c.Writer.Size(),
			"latency", time.Since(start),
			"client", getClientIP(c),
		)
	}
}
