/*
 * @Description: 规范站点 URL 的解析
 * @Date: 2026-10-18 10:34:52
 */
package sitemap

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	"github.com/calisto-ai/calisto-site/pkg/config"
	"github.com/calisto-ai/calisto-site/pkg/constant"
)

// DevFallbackURL 开发环境的兜底地址
const DevFallbackURL = "http://localhost:3010"

// ResolveBaseURL 按优先级解析站点的规范 URL：
// SITE_URL、PUBLIC_SITE_URL、配置文件 Site.URL、平台分配的 PLATFORM_URL，最后是开发兜底地址。
// 生产模式下不允许落到兜底地址，返回 constant.ErrBaseURLUnresolved。
func ResolveBaseURL(env config.SiteEnv, configured string) (string, error) {
	candidates := []string{env.SiteURL, env.PublicSiteURL, configured}
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return CanonicalBaseURL(c)
		}
	}

	if p := strings.TrimSpace(env.PlatformURL); p != "" {
		if !strings.Contains(p, "://") {
			p = "https://" + p
		}
		return CanonicalBaseURL(p)
	}

	if env.IsProduction() {
		return "", constant.ErrBaseURLUnresolved
	}
	return DevFallbackURL, nil
}

// CanonicalBaseURL 校验并规范化站点 URL：http(s)、主机名非空并转换为 ASCII (IDNA)、去掉结尾斜杠，
// 查询串与片段会被丢弃
func CanonicalBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", constant.ErrBaseURLInvalid, raw, err)
	}
	if !isHTTPScheme(strings.ToLower(u.Scheme)) {
		return "", fmt.Errorf("%w: %q: scheme must be http or https", constant.ErrBaseURLInvalid, raw)
	}
	hostname := u.Hostname()
	if hostname == "" {
		return "", fmt.Errorf("%w: %q: missing host", constant.ErrBaseURLInvalid, raw)
	}

	asciiHost := hostname
	if net.ParseIP(hostname) == nil {
		if asciiHost, err = idna.Lookup.ToASCII(hostname); err != nil {
			return "", fmt.Errorf("%w: %q: %v", constant.ErrBaseURLInvalid, raw, err)
		}
	}

	host := asciiHost
	if port := u.Port(); port != "" {
		host = net.JoinHostPort(asciiHost, port)
	} else if strings.Contains(asciiHost, ":") {
		host = "[" + asciiHost + "]"
	}

	out := url.URL{
		Scheme: strings.ToLower(u.Scheme),
		Host:   host,
		Path:   strings.TrimRight(u.Path, "/"),
	}
	return out.String(), nil
}
