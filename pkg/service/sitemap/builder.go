/*
 * @Description: 站点地图 XML 构建
 * @Date: 2026-10-18 11:12:36
 */
package sitemap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/calisto-ai/calisto-site/pkg/constant"
	"github.com/calisto-ai/calisto-site/pkg/domain/model"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// extensions 记录条目实际输出了哪些扩展，根元素只声明用到的命名空间
type extensions struct {
	xhtml, image, video bool
}

func (e *extensions) add(o extensions) {
	e.xhtml = e.xhtml || o.xhtml
	e.image = e.image || o.image
	e.video = e.video || o.video
}

// BuildURLEntry 输出一个 <url> 块。缺少 loc 返回错误；其余无效字段被省略并记录为警告。
// base 非空时相对地址会先对 base 规范化。
func BuildURLEntry(entry model.SiteURLEntry, base string) (string, []string, error) {
	fragment, warnings, _, err := buildURLEntry(entry, base)
	return fragment, warnings, err
}

func buildURLEntry(entry model.SiteURLEntry, base string) (string, []string, extensions, error) {
	var (
		warnings []string
		used     extensions
	)

	if err := ValidateXMLText(entry.URL); err != nil {
		return "", nil, used, fmt.Errorf("loc: %w", err)
	}
	loc, err := resolveLoc(entry.URL, base)
	if err != nil {
		return "", nil, used, err
	}

	var b strings.Builder
	b.WriteString("  <url>\n")
	fmt.Fprintf(&b, "    <loc>%s</loc>\n", EscapeXML(loc))

	if entry.LastModified != nil {
		if lastmod, err := FormatW3CDate(*entry.LastModified); err != nil {
			warnings = append(warnings, fmt.Sprintf("lastmod omitted for %s: %v", loc, err))
		} else {
			fmt.Fprintf(&b, "    <lastmod>%s</lastmod>\n", lastmod)
		}
	}

	if entry.ChangeFrequency != "" {
		if entry.ChangeFrequency.IsValid() {
			fmt.Fprintf(&b, "    <changefreq>%s</changefreq>\n", entry.ChangeFrequency)
		} else {
			warnings = append(warnings, fmt.Sprintf("changefreq %q omitted for %s", entry.ChangeFrequency, loc))
		}
	}

	if entry.Priority != nil {
		if entry.HasValidPriority() {
			fmt.Fprintf(&b, "    <priority>%s</priority>\n", strconv.FormatFloat(*entry.Priority, 'f', 1, 64))
		} else {
			warnings = append(warnings, fmt.Sprintf("priority %v omitted for %s", *entry.Priority, loc))
		}
	}

	alternates, w := fold(entry.Alternates, func(a model.Alternate) (model.Alternate, error) {
		if err := a.Validate(); err != nil {
			return a, err
		}
		return a, ValidateXMLText(a.Hreflang, a.Href)
	})
	warnings = append(warnings, prefixed(loc, w)...)
	for _, a := range alternates {
		fmt.Fprintf(&b, "    <xhtml:link rel=\"alternate\" hreflang=\"%s\" href=\"%s\" />\n",
			EscapeXML(a.Hreflang), EscapeXML(a.Href))
		used.xhtml = true
	}

	images, w := fold(entry.Images, func(img model.Image) (model.Image, error) {
		if err := img.Validate(); err != nil {
			return img, err
		}
		return img, ValidateXMLText(img.URL, img.Title, img.Caption)
	})
	warnings = append(warnings, prefixed(loc, w)...)
	for _, img := range images {
		b.WriteString("    <image:image>\n")
		fmt.Fprintf(&b, "      <image:loc>%s</image:loc>\n", EscapeXML(img.URL))
		if img.Title != "" {
			fmt.Fprintf(&b, "      <image:title>%s</image:title>\n", EscapeXML(img.Title))
		}
		if img.Caption != "" {
			fmt.Fprintf(&b, "      <image:caption>%s</image:caption>\n", EscapeXML(img.Caption))
		}
		b.WriteString("    </image:image>\n")
		used.image = true
	}

	videos, w := fold(entry.Videos, func(v model.Video) (model.Video, error) {
		if err := v.Validate(); err != nil {
			return v, err
		}
		return v, ValidateXMLText(v.URL, v.Title, v.ThumbnailURL, v.Description)
	})
	warnings = append(warnings, prefixed(loc, w)...)
	for _, v := range videos {
		b.WriteString("    <video:video>\n")
		fmt.Fprintf(&b, "      <video:thumbnail_loc>%s</video:thumbnail_loc>\n", EscapeXML(v.ThumbnailURL))
		fmt.Fprintf(&b, "      <video:title>%s</video:title>\n", EscapeXML(v.Title))
		if v.Description != "" {
			fmt.Fprintf(&b, "      <video:description>%s</video:description>\n", EscapeXML(v.Description))
		}
		fmt.Fprintf(&b, "      <video:content_loc>%s</video:content_loc>\n", EscapeXML(v.URL))
		b.WriteString("    </video:video>\n")
		used.video = true
	}

	b.WriteString("  </url>\n")
	return b.String(), warnings, used, nil
}

// BuildSitemapXML 构建 <urlset> 文档。单个条目失败只跳过该条目，
// 最终结果合并结构校验与限制校验，两者都通过才有效。
func BuildSitemapXML(entries []model.SiteURLEntry, base string) (*model.GeneratedDocument, error) {
	if len(entries) == 0 {
		return nil, constant.ErrEmptyDocument
	}

	type built struct {
		fragment string
		used     extensions
	}
	var warnings []string
	fragments, skipped := fold(entries, func(e model.SiteURLEntry) (built, error) {
		fragment, w, used, err := buildURLEntry(e, base)
		if err != nil {
			return built{}, err
		}
		warnings = append(warnings, w...)
		return built{fragment: fragment, used: used}, nil
	})
	if len(fragments) == 0 {
		return nil, fmt.Errorf("%w: all %d entries were skipped", constant.ErrEmptyDocument, len(entries))
	}
	for _, s := range skipped {
		warnings = append(warnings, "entry skipped: "+s)
	}

	var used extensions
	for _, f := range fragments {
		used.add(f.used)
	}

	var b strings.Builder
	b.WriteString(xmlDeclaration)
	b.WriteString(`<urlset xmlns="` + constant.NSSitemap + `"`)
	if used.xhtml {
		b.WriteString(` xmlns:xhtml="` + constant.NSXHTML + `"`)
	}
	if used.image {
		b.WriteString(` xmlns:image="` + constant.NSImage + `"`)
	}
	if used.video {
		b.WriteString(` xmlns:video="` + constant.NSVideo + `"`)
	}
	b.WriteString(">\n")
	for _, f := range fragments {
		b.WriteString(f.fragment)
	}
	b.WriteString("</urlset>")

	return finishDocument(b.String(), len(fragments), model.KindURLSet, warnings), nil
}

// BuildSitemapIndexXML 构建 <sitemapindex> 文档。引用为空、超过 50,000 个或引用了另一个索引都直接返回错误。
func BuildSitemapIndexXML(refs []model.SitemapRef, base string) (*model.GeneratedDocument, error) {
	if len(refs) == 0 {
		return nil, constant.ErrEmptyDocument
	}
	if len(refs) > constant.MaxURLsPerSitemap {
		return nil, fmt.Errorf("%w: %d sitemaps (max %d)", constant.ErrTooManyItems, len(refs), constant.MaxURLsPerSitemap)
	}

	var (
		warnings []string
		b        strings.Builder
	)
	b.WriteString(xmlDeclaration)
	b.WriteString(`<sitemapindex xmlns="` + constant.NSSitemap + `">` + "\n")

	for _, ref := range refs {
		loc, err := resolveLoc(ref.URL, base)
		if err != nil {
			return nil, err
		}
		if isNestedIndexRef(loc) {
			return nil, fmt.Errorf("%w: %s", constant.ErrNestedIndex, loc)
		}
		b.WriteString("  <sitemap>\n")
		fmt.Fprintf(&b, "    <loc>%s</loc>\n", EscapeXML(loc))
		if ref.LastModified != nil {
			if lastmod, err := FormatW3CDate(*ref.LastModified); err != nil {
				warnings = append(warnings, fmt.Sprintf("lastmod omitted for %s: %v", loc, err))
			} else {
				fmt.Fprintf(&b, "    <lastmod>%s</lastmod>\n", lastmod)
			}
		}
		b.WriteString("  </sitemap>\n")
	}
	b.WriteString("</sitemapindex>")

	return finishDocument(b.String(), len(refs), model.KindSitemapIndex, warnings), nil
}

// PageURL 第 n 个分页文档的地址
func PageURL(base string, n int) string {
	return strings.TrimRight(base, "/") + fmt.Sprintf("%s/sitemap-%d.xml", constant.SitemapPagesDir, n)
}

func finishDocument(content string, count int, kind model.DocumentKind, buildWarnings []string) *model.GeneratedDocument {
	structure := ValidateSitemapXML(content)
	limits := ValidateSitemapLimits(content, count, kind)

	validation := model.NewValidationResult(nil, buildWarnings, model.ValidationStats{ItemCount: count}).
		Merge(structure.ValidationResult).
		Merge(limits)
	if structure.DocumentType != kind {
		validation = validation.Merge(model.NewValidationResult(
			[]string{fmt.Sprintf("document type %s does not match expected %s", structure.DocumentType, kind)}, nil, model.ValidationStats{}))
	}

	return &model.GeneratedDocument{
		XML:  content,
		Kind: kind,
		Stats: model.DocumentStats{
			SizeBytes:     limits.Stats.SizeBytes,
			SizeFormatted: limits.Stats.SizeFormatted,
			EntryCount:    count,
		},
		Validation: validation,
	}
}

func resolveLoc(raw, base string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", constant.ErrMissingLoc
	}
	if ValidateAbsoluteURL(raw) {
		return raw, nil
	}
	if base == "" {
		return "", fmt.Errorf("%w: %q is not an absolute URL", constant.ErrMissingLoc, raw)
	}
	return NormalizeURL(base, raw)
}

func prefixed(loc string, warnings []string) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, loc+": "+w)
	}
	return out
}
