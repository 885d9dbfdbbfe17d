package sitemap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calisto-ai/calisto-site/pkg/constant"
	"github.com/calisto-ai/calisto-site/pkg/domain/model"
)

func TestValidateDomainConsistency(t *testing.T) {
	errs := ValidateDomainConsistency(testBase, []string{
		"https://example.com/ok",
		"https://example.com:443/default-port",
		"http://example.com/scheme",
		"https://other.com:8080/host-and-port",
		"::bad",
	})

	require.Len(t, errs, 4)
	assert.Contains(t, errs[0], "inconsistent scheme")
	assert.Contains(t, errs[1], "inconsistent host")
	assert.Contains(t, errs[2], "inconsistent port")
	assert.Contains(t, errs[3], "invalid URL")

	assert.Equal(t, []string{"invalid base URL: nope"}, ValidateDomainConsistency("nope", []string{testBase}))
}

func TestValidateSitemapData(t *testing.T) {
	t.Run("空集合", func(t *testing.T) {
		res := ValidateSitemapData(nil, testBase)
		assert.False(t, res.Valid)
		assert.NotEmpty(t, res.Errors)
	})

	t.Run("警告不影响有效性", func(t *testing.T) {
		entries := entriesFor("/a", "/b", "/a")
		entries[1].Priority = model.Priority(1.5)
		entries[1].ChangeFrequency = "sometimes"

		res := ValidateSitemapData(entries, testBase)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)
		assert.Len(t, res.Warnings, 3)
		assert.Equal(t, 1, res.Stats.DuplicateCount)
		assert.Equal(t, 3, res.Stats.ItemCount)
	})

	t.Run("域名不一致是错误", func(t *testing.T) {
		entries := append(entriesFor("/a"), model.SiteURLEntry{URL: "https://evil.com/b"})
		res := ValidateSitemapData(entries, testBase)
		assert.False(t, res.Valid)
		assert.Len(t, res.Errors, 1)
	})

	t.Run("超出数量限制", func(t *testing.T) {
		entries := make([]model.SiteURLEntry, constant.MaxURLsPerSitemap+1)
		for i := range entries {
			entries[i].URL = testBase + "/p"
		}
		res := ValidateSitemapData(entries, testBase)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors[0], "too many URLs")
	})
}

const validURLSet = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:xhtml="http://www.w3.org/1999/xhtml">
  <url>
    <loc>https://example.com/</loc>
    <xhtml:link rel="alternate" hreflang="en" href="https://example.com/en" />
  </url>
  <url>
    <loc>https://example.com/sobre</loc>
  </url>
</urlset>`

func TestValidateSitemapXML(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		valid     bool
		kind      model.DocumentKind
		errorPart string
		warnPart  string
	}{
		{name: "合法的 urlset（含自闭合标签）", content: validURLSet, valid: true, kind: model.KindURLSet},
		{
			name:    "合法的索引",
			content: `<?xml version="1.0" encoding="UTF-8"?><sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"><sitemap><loc>https://example.com/sitemaps/sitemap-1.xml</loc></sitemap></sitemapindex>`,
			valid:   true,
			kind:    model.KindSitemapIndex,
		},
		{
			name:      "缺少声明",
			content:   `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"><url><loc>https://example.com/</loc></url></urlset>`,
			kind:      model.KindURLSet,
			errorPart: "XML declaration",
			warnPart:  "UTF-8",
		},
		{
			name:      "缺少命名空间",
			content:   `<?xml version="1.0" encoding="UTF-8"?><urlset><url><loc>https://example.com/</loc></url></urlset>`,
			kind:      model.KindURLSet,
			errorPart: "namespace",
		},
		{
			name:      "url 缺少 loc",
			content:   `<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"><url><loc>https://example.com/</loc></url><url></url></urlset>`,
			kind:      model.KindURLSet,
			errorPart: "<loc>",
		},
		{
			name:     "没有任何条目",
			content:  `<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"></urlset>`,
			valid:    true,
			kind:     model.KindURLSet,
			warnPart: "no <url>",
		},
		{
			name:      "嵌套索引",
			content:   `<?xml version="1.0" encoding="UTF-8"?><sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"><sitemap><loc>https://example.com/sitemap-index.xml</loc></sitemap></sitemapindex>`,
			kind:      model.KindSitemapIndex,
			errorPart: "nested sitemap index",
		},
		{
			name:      "标签不平衡",
			content:   `<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"><url><loc>https://example.com/</loc></urlset>`,
			kind:      model.KindURLSet,
			errorPart: "malformed XML",
		},
		{
			name:     "lastmod 不是 W3C 格式",
			content:  `<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"><url><loc>https://example.com/</loc><lastmod>18/10/2026</lastmod></url></urlset>`,
			valid:    true,
			kind:     model.KindURLSet,
			warnPart: "18/10/2026",
		},
		{
			name:      "未知根元素",
			content:   `<?xml version="1.0" encoding="UTF-8"?><html></html>`,
			kind:      model.KindUnknown,
			errorPart: "unrecognized sitemap type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateSitemapXML(tt.content)
			assert.Equal(t, tt.valid, res.Valid, "errors: %v", res.Errors)
			assert.Equal(t, tt.kind, res.DocumentType)
			if tt.errorPart != "" {
				assert.True(t, containsPart(res.Errors, tt.errorPart), "errors %v should mention %q", res.Errors, tt.errorPart)
			}
			if tt.warnPart != "" {
				assert.True(t, containsPart(res.Warnings, tt.warnPart), "warnings %v should mention %q", res.Warnings, tt.warnPart)
			}
		})
	}
}

func TestValidateSitemapLimits(t *testing.T) {
	res := ValidateSitemapLimits(validURLSet, 2, model.KindURLSet)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, len(validURLSet), res.Stats.SizeBytes)
	assert.NotEmpty(t, res.Stats.SizeFormatted)

	res = ValidateSitemapLimits(validURLSet, 45001, model.KindURLSet)
	assert.True(t, res.Valid)
	require.Len(t, res.Warnings, 1)
	assert.True(t, strings.HasPrefix(res.Warnings[0], "URLs close to the limit"))

	res = ValidateSitemapLimits(validURLSet, 50001, model.KindSitemapIndex)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.True(t, strings.HasPrefix(res.Errors[0], "Sitemaps exceed"))

	near := strings.Repeat("a", int(constant.MaxSitemapBytes*constant.LimitWarningRatio)+1)
	res = ValidateSitemapLimits(near, 1, model.KindURLSet)
	assert.True(t, res.Valid)
	assert.True(t, containsPart(res.Warnings, "size close to the limit"))

	over := strings.Repeat("a", constant.MaxSitemapBytes+1)
	res = ValidateSitemapLimits(over, 1, model.KindURLSet)
	assert.False(t, res.Valid)
	assert.True(t, containsPart(res.Errors, "size exceeds 50 MiB"))
}

func containsPart(list []string, part string) bool {
	for _, s := range list {
		if strings.Contains(s, part) {
			return true
		}
	}
	return false
}
