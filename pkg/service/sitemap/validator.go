/*
 * @Description: 站点地图校验：构建前的条目校验、构建后的结构校验与大小/数量限制
 * @Date: 2026-10-18 10:48:15
 */
package sitemap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/calisto-ai/calisto-site/pkg/constant"
	"github.com/calisto-ai/calisto-site/pkg/domain/model"
)

// ValidateDomainConsistency 逐个比较协议、主机、端口，每个不一致的部分产生一条错误
func ValidateDomainConsistency(base string, urls []string) []string {
	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Hostname() == "" {
		return []string{fmt.Sprintf("invalid base URL: %s", base)}
	}

	var errs []string
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			errs = append(errs, fmt.Sprintf("invalid URL: %s", raw))
			continue
		}
		if u.Scheme != baseURL.Scheme {
			errs = append(errs, fmt.Sprintf("inconsistent scheme: %s (expected %s)", raw, baseURL.Scheme))
		}
		if !strings.EqualFold(u.Hostname(), baseURL.Hostname()) {
			errs = append(errs, fmt.Sprintf("inconsistent host: %s (expected %s)", raw, baseURL.Hostname()))
		}
		if effectivePort(u) != effectivePort(baseURL) {
			expected := effectivePort(baseURL)
			if expected == "" {
				expected = "default"
			}
			errs = append(errs, fmt.Sprintf("inconsistent port: %s (expected %s)", raw, expected))
		}
	}
	return errs
}

// ValidateSitemapData 构建前对条目做综合校验。
// 空集合、超出数量限制、域名不一致为错误；重复、优先级越界、非法更新频率只是警告。
func ValidateSitemapData(entries []model.SiteURLEntry, base string) model.ValidationResult {
	var errs, warnings []string

	if len(entries) == 0 {
		errs = append(errs, "sitemap has no URLs")
	}
	if len(entries) > constant.MaxURLsPerSitemap {
		errs = append(errs, fmt.Sprintf("too many URLs: %d (max %d)", len(entries), constant.MaxURLsPerSitemap))
	}

	urls := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	duplicates := 0
	for _, e := range entries {
		urls = append(urls, e.URL)
		if _, ok := seen[e.URL]; ok {
			duplicates++
			warnings = append(warnings, fmt.Sprintf("duplicate URL: %s", e.URL))
		} else {
			seen[e.URL] = struct{}{}
		}
		if e.Priority != nil && !e.HasValidPriority() {
			warnings = append(warnings, fmt.Sprintf("invalid priority %v for %s (must be between 0.0 and 1.0)", *e.Priority, e.URL))
		}
		if e.ChangeFrequency != "" && !e.ChangeFrequency.IsValid() {
			warnings = append(warnings, fmt.Sprintf("invalid changefreq %q for %s", e.ChangeFrequency, e.URL))
		}
	}
	errs = append(errs, ValidateDomainConsistency(base, urls)...)

	return model.NewValidationResult(errs, warnings, model.ValidationStats{
		ItemCount:      len(entries),
		DuplicateCount: duplicates,
	})
}

// ValidateSitemapXML 对序列化后的文档做结构校验。良构性由 encoding/xml 的分词器判断，
// 因此不平衡的标签是错误而不是猜测性的警告。
func ValidateSitemapXML(content string) model.XMLValidationResult {
	var errs, warnings []string

	if !strings.HasPrefix(strings.TrimLeft(content, "\ufeff \t\r\n"), `<?xml version="1.0"`) {
		errs = append(errs, "missing or invalid XML declaration")
	}
	if !strings.Contains(content, `encoding="UTF-8"`) {
		warnings = append(warnings, "UTF-8 encoding is not declared explicitly")
	}

	scan, scanErr := scanDocument(content)
	kind := scan.kind

	switch kind {
	case model.KindURLSet, model.KindSitemapIndex:
		if !scan.defaultNS {
			errs = append(errs, fmt.Sprintf("missing required namespace: %s", constant.NSSitemap))
		}
		item := "url"
		if kind == model.KindSitemapIndex {
			item = "sitemap"
		}
		if scan.items == 0 {
			warnings = append(warnings, fmt.Sprintf("no <%s> elements found", item))
		} else if scan.locs != scan.items {
			errs = append(errs, fmt.Sprintf("inconsistent number of <loc> elements: %d <loc> for %d <%s>", scan.locs, scan.items, item))
		}
		if scan.invalidLastmods > 0 {
			warnings = append(warnings, fmt.Sprintf("%d <lastmod> values are not W3C Datetime, e.g. %q",
				scan.invalidLastmods, scan.badLastmods))
		}
		if kind == model.KindSitemapIndex && scan.nestedIndex != "" {
			errs = append(errs, fmt.Sprintf("nested sitemap index detected: %s", scan.nestedIndex))
		}
	default:
		errs = append(errs, "unrecognized sitemap type (root must be <urlset> or <sitemapindex>)")
	}

	if scanErr != nil {
		errs = append(errs, fmt.Sprintf("malformed XML: %v", scanErr))
	}

	stats := model.ValidationStats{ItemCount: scan.items}
	return model.XMLValidationResult{
		ValidationResult: model.NewValidationResult(errs, warnings, stats),
		DocumentType:     kind,
	}
}

// ValidateSitemapLimits 检查字节大小与条目数量，超过 90% 时给出警告
func ValidateSitemapLimits(content string, itemCount int, kind model.DocumentKind) model.ValidationResult {
	var errs, warnings []string
	size := ByteSize(content)
	formatted := FormatByteSize(size)
	label := kind.ItemLabel()

	switch {
	case size > constant.MaxSitemapBytes:
		errs = append(errs, fmt.Sprintf("size exceeds 50 MiB: %s", formatted))
	case float64(size) > constant.MaxSitemapBytes*constant.LimitWarningRatio:
		warnings = append(warnings, fmt.Sprintf("size close to the limit (90%%): %s", formatted))
	}

	switch {
	case itemCount > constant.MaxURLsPerSitemap:
		errs = append(errs, fmt.Sprintf("%s exceed %d: %d", label, constant.MaxURLsPerSitemap, itemCount))
	case float64(itemCount) > constant.MaxURLsPerSitemap*constant.LimitWarningRatio:
		warnings = append(warnings, fmt.Sprintf("%s close to the limit (90%%): %d", label, itemCount))
	}

	return model.NewValidationResult(errs, warnings, model.ValidationStats{
		ItemCount:     itemCount,
		SizeBytes:     size,
		SizeFormatted: formatted,
	})
}

type documentScan struct {
	kind        model.DocumentKind
	defaultNS   bool
	items       int
	locs        int
	nestedIndex string
	// badLastmods 最多保留 maxReportedLastmods 个无效值，invalidLastmods 是总数
	badLastmods     []string
	invalidLastmods int
}

const maxReportedLastmods = 5

// scanDocument 用真正的 XML 分词器遍历文档，统计根元素的直接子条目及其 <loc>
func scanDocument(content string) (documentScan, error) {
	scan := documentScan{kind: model.KindUnknown}
	dec := xml.NewDecoder(strings.NewReader(content))
	dec.Strict = true

	depth := 0
	// field 是正在读取文本的第三层元素 (loc 或 lastmod)，为空表示不在读取
	field := ""
	var text bytes.Buffer

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if depth != 0 {
				return scan, errors.New("unexpected end of document")
			}
			return scan, nil
		}
		if err != nil {
			return scan, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 1:
				switch t.Name.Local {
				case string(model.KindURLSet):
					scan.kind = model.KindURLSet
				case string(model.KindSitemapIndex):
					scan.kind = model.KindSitemapIndex
				}
				scan.defaultNS = t.Name.Space == constant.NSSitemap && hasDefaultNS(t.Attr)
			case 2:
				if t.Name.Space == constant.NSSitemap && (t.Name.Local == "url" || t.Name.Local == "sitemap") {
					scan.items++
				}
			case 3:
				if t.Name.Space == constant.NSSitemap && (t.Name.Local == "loc" || t.Name.Local == "lastmod") {
					if t.Name.Local == "loc" {
						scan.locs++
					}
					field = t.Name.Local
					text.Reset()
				}
			}
		case xml.CharData:
			if field != "" {
				text.Write(t)
			}
		case xml.EndElement:
			if field != "" && depth == 3 {
				value := strings.TrimSpace(text.String())
				switch field {
				case "loc":
					if isNestedIndexRef(value) && scan.nestedIndex == "" {
						scan.nestedIndex = value
					}
				case "lastmod":
					if !ValidateW3CDate(value) {
						scan.invalidLastmods++
						if len(scan.badLastmods) < maxReportedLastmods {
							scan.badLastmods = append(scan.badLastmods, value)
						}
					}
				}
				field = ""
			}
			depth--
		}
	}
}

func hasDefaultNS(attrs []xml.Attr) bool {
	for _, a := range attrs {
		if a.Name.Space == "" && a.Name.Local == "xmlns" && a.Value == constant.NSSitemap {
			return true
		}
	}
	return false
}

// isNestedIndexRef 引用的文件名是否看起来是另一个站点地图索引
func isNestedIndexRef(ref string) bool {
	name := strings.ToLower(ref)
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		name = strings.ToLower(u.Path)
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.Contains(name, "sitemap-index") || strings.Contains(name, "sitemapindex")
}
