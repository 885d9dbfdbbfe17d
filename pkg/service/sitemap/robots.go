/*
 * @Description: robots.txt 生成与自检
 * @Date: 2026-10-18 12:20:51
 */
package sitemap

import (
	"fmt"
	"strings"

	"github.com/temoto/robotstxt"

	"github.com/calisto-ai/calisto-site/pkg/constant"
)

// 自检使用的爬虫
var verifyAgents = []string{"Googlebot", "Bingbot", "*"}

// BuildRobots 生成 robots.txt。disallow 为 true 时阻止整站索引，但仍允许抓取站点地图与 robots.txt，
// 避免预览环境被收录的同时让工具可以验证站点地图。
func BuildRobots(base string, disallow bool) string {
	sitemapURL := strings.TrimRight(base, "/") + constant.SitemapPath
	var b strings.Builder

	if disallow {
		b.WriteString("User-agent: *\n")
		b.WriteString("Disallow: /\n\n")
		b.WriteString("# sitemaps stay reachable while indexing is blocked\n")
		b.WriteString("Allow: /sitemap*.xml\n")
		b.WriteString("Allow: /robots.txt\n\n")
		fmt.Fprintf(&b, "Sitemap: %s\n", sitemapURL)
		return b.String()
	}

	groups := []struct {
		agent    string
		disallow []string
	}{
		{"*", []string{"/api/", "/admin/"}},
		{"Googlebot", []string{"/api/", "/admin/"}},
		{"Bingbot", []string{"/api/", "/admin/"}},
	}
	for _, g := range groups {
		fmt.Fprintf(&b, "User-agent: %s\n", g.agent)
		b.WriteString("Allow: /\n")
		for _, path := range g.disallow {
			fmt.Fprintf(&b, "Disallow: %s\n", path)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Sitemap: %s\n\n", sitemapURL)
	fmt.Fprintf(&b, "Host: %s\n", hostOf(base))
	return b.String()
}

// FallbackRobots 生成失败时使用的保守策略
func FallbackRobots(base string) string {
	return "User-agent: *\nDisallow: /\n\n" +
		fmt.Sprintf("Sitemap: %s%s\n", strings.TrimRight(base, "/"), constant.SitemapPath)
}

// VerifyRobots 用真正的 robots.txt 解析器读回策略，确认站点地图可被抓取且被引用
func VerifyRobots(body, base string) error {
	data, err := robotstxt.FromString(body)
	if err != nil {
		return fmt.Errorf("parse robots.txt: %w", err)
	}

	sitemapURL := strings.TrimRight(base, "/") + constant.SitemapPath
	found := false
	for _, s := range data.Sitemaps {
		if s == sitemapURL {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("robots.txt does not reference %s", sitemapURL)
	}

	for _, agent := range verifyAgents {
		for _, path := range []string{constant.SitemapPath, constant.RobotsPath} {
			if !data.TestAgent(path, agent) {
				return fmt.Errorf("robots.txt blocks %s for %s", path, agent)
			}
		}
	}
	return nil
}

// hostOf 去掉协议部分，保留主机、端口与路径
func hostOf(base string) string {
	host := strings.TrimRight(base, "/")
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(host, prefix) {
			return strings.TrimPrefix(host, prefix)
		}
	}
	return host
}
