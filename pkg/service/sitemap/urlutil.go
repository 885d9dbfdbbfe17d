/*
 * @Description: 站点地图 URL、日期与 XML 文本工具
 * @Date: 2026-10-18 10:21:08
 */
package sitemap

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/calisto-ai/calisto-site/pkg/constant"
)

// w3cDateLayout lastmod 的输出格式：UTC，毫秒精度，以 Z 结尾
const w3cDateLayout = "2006-01-02T15:04:05.000Z"

var (
	duplicateSlashes = regexp.MustCompile(`([^:]/)/+`)
	w3cDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2}(\.\d{3})?(Z|[+-]\d{2}:\d{2}))?$`)
	xmlEscaper       = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")

	errInvalidDate = errors.New("invalid date")
	errXMLText     = errors.New("text is not representable in XML")
)

// NormalizeURL 将 path 拼接到 base 上，合并重复的斜杠（保留协议中的 ://），
// 结果的协议、主机、端口必须与 base 一致
func NormalizeURL(base, path string) (string, error) {
	cleanBase := strings.TrimRight(strings.TrimSpace(base), "/")
	cleanPath := strings.TrimSpace(path)

	full := cleanBase
	if cleanPath != "" && cleanPath != "/" {
		if !strings.HasPrefix(cleanPath, "/") {
			cleanPath = "/" + cleanPath
		}
		full = duplicateSlashes.ReplaceAllString(cleanBase+cleanPath, "$1")
	}

	baseURL, err := url.Parse(cleanBase)
	if err != nil || !isHTTPScheme(baseURL.Scheme) || baseURL.Hostname() == "" {
		return "", fmt.Errorf("%w: %q", constant.ErrBaseURLInvalid, base)
	}
	fullURL, err := url.Parse(full)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", full, err)
	}
	if !sameOrigin(baseURL, fullURL) {
		return "", fmt.Errorf("%w: %s does not match %s", constant.ErrURLOutOfScope, full, cleanBase)
	}
	return full, nil
}

// ValidateAbsoluteURL 是否为带主机名的 http(s) 绝对地址
func ValidateAbsoluteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return isHTTPScheme(u.Scheme) && u.Hostname() != ""
}

// EscapeXML 转义 XML 文本中的 & < > " '
func EscapeXML(text string) string {
	return xmlEscaper.Replace(text)
}

// ValidateXMLText 文本必须是合法的 UTF-8，且每个字符都在 XML 1.0 的 Char 范围内，
// 否则转义之后文档仍然无法解析
func ValidateXMLText(fields ...string) error {
	for _, f := range fields {
		if !utf8.ValidString(f) {
			return fmt.Errorf("%w: invalid UTF-8 in %q", errXMLText, f)
		}
		for _, r := range f {
			if !isXMLChar(r) {
				return fmt.Errorf("%w: character %U in %q", errXMLText, r, f)
			}
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}

// FormatW3CDate 格式化为 W3C Datetime。零值或年份超出四位数的时间视为无效。
func FormatW3CDate(t time.Time) (string, error) {
	if t.IsZero() {
		return "", errInvalidDate
	}
	u := t.UTC()
	if y := u.Year(); y < 0 || y > 9999 {
		return "", fmt.Errorf("%w: year %d out of range", errInvalidDate, y)
	}
	return u.Format(w3cDateLayout), nil
}

// ValidateW3CDate 校验 lastmod 字符串，接受 YYYY-MM-DD 或带时区的完整时间
func ValidateW3CDate(s string) bool {
	if !w3cDatePattern.MatchString(s) {
		return false
	}
	if len(s) == len("2006-01-02") {
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	}
	_, err := time.Parse(time.RFC3339Nano, s)
	return err == nil
}

// ByteSize UTF-8 字节长度
func ByteSize(content string) int {
	return len(content)
}

// FormatByteSize 人类可读的大小，例如 "1.5 KiB"
func FormatByteSize(n int) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// ExtractURLs 提取文档中所有 sitemap 命名空间下 <loc> 的值，仅保留合法的绝对地址。
// 解析中途出错时返回已经提取到的部分。
func ExtractURLs(content string) []string {
	dec := xml.NewDecoder(strings.NewReader(content))
	var (
		urls  []string
		inLoc bool
		buf   strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "loc" && (t.Name.Space == constant.NSSitemap || t.Name.Space == "") {
				inLoc = true
				buf.Reset()
			}
		case xml.CharData:
			if inLoc {
				buf.Write(t)
			}
		case xml.EndElement:
			if inLoc && t.Name.Local == "loc" {
				inLoc = false
				if u := strings.TrimSpace(buf.String()); u != "" && ValidateAbsoluteURL(u) {
					urls = append(urls, u)
				}
			}
		}
	}
	return urls
}

func isHTTPScheme(scheme string) bool {
	return scheme == "http" || scheme == "https"
}

// effectivePort 默认端口视为空，与 https://example.com:443 和 https://example.com 等价
func effectivePort(u *url.URL) string {
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		return ""
	}
	return port
}

func sameOrigin(a, b *url.URL) bool {
	return a.Scheme == b.Scheme &&
		strings.EqualFold(a.Hostname(), b.Hostname()) &&
		effectivePort(a) == effectivePort(b)
}
