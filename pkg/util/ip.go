/*
 * @Description: 客户端 IP 解析
 * @Date: 2026-10-18 16:05:41
 */
package util

import (
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
)

// clientIPHeaders 按优先级排列的代理/CDN 头部
// Cloudflare、Vercel、Fastly 等都会至少设置其中之一
var clientIPHeaders = []string{
	"X-Forwarded-For",
	"X-Real-IP",
	"CF-Connecting-IP",
	"True-Client-IP",
	"X-Vercel-Forwarded-For",
	"Fastly-Client-IP",
	"X-Client-IP",
}

// GetRealClientIP 获取客户端真实IP地址
// 依次检查 clientIPHeaders，多值头部取第一个合法 IP；都没有时退回 gin 的 ClientIP
func GetRealClientIP(c *gin.Context) string {
	for _, header := range clientIPHeaders {
		value := c.GetHeader(header)
		if value == "" {
			continue
		}
		first, _, _ := strings.Cut(value, ",")
		if ip, ok := ParseIP(first); ok {
			return ip
		}
	}
	return c.ClientIP()
}

// ParseIP 规范化 IP 字符串，兼容带端口和方括号的写法
func ParseIP(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if ap, err := netip.ParseAddrPort(raw); err == nil {
		return ap.Addr().Unmap().String(), true
	}
	addr, err := netip.ParseAddr(strings.Trim(raw, "[]"))
	if err != nil {
		return "", false
	}
	return addr.Unmap().String(), true
}

