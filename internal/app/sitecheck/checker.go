/*
 * @Description: 线上站点地图自检：抓取 robots.txt 与 sitemap 并复用生成端的校验规则
 * @Date: 2026-10-18 16:31:20
 */
package sitecheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/errgroup"

	"github.com/calisto-ai/calisto-site/internal/pkg/logger"
	"github.com/calisto-ai/calisto-site/pkg/constant"
	"github.com/calisto-ai/calisto-site/pkg/domain/model"
	"github.com/calisto-ai/calisto-site/pkg/service/sitemap"
)

const (
	requestTimeout = 15 * time.Second
	sampleSize     = 3
	// childConcurrency 索引下子文档的并发抓取数
	childConcurrency = 4
	userAgent        = "calisto-sitecheck/1.0"
)

// DocumentReport 单个 sitemap 文档的检查结果
type DocumentReport struct {
	URL            string
	StatusCode     int
	ContentType    string
	Kind           model.DocumentKind
	SizeBytes      int
	SizeFormatted  string
	ItemCount      int
	Samples        []string
	ReportedURLs   string
	GenerationTime string
	Errors         []string
	Warnings       []string
}

// OK 没有错误即通过
func (d *DocumentReport) OK() bool { return len(d.Errors) == 0 }

// RobotsReport robots.txt 的检查结果
type RobotsReport struct {
	URL              string
	StatusCode       int
	Sitemaps         []string
	HasUserAgent     bool
	SitemapCrawlable bool
	Body             string
	Errors           []string
	Warnings         []string
}

// OK 没有错误即通过
func (r *RobotsReport) OK() bool { return len(r.Errors) == 0 }

// Report 一次完整检查
type Report struct {
	Site      string
	Robots    RobotsReport
	Main      DocumentReport
	Children  []DocumentReport
	CheckedAt time.Time
}

// OK robots 与所有文档都通过
func (r *Report) OK() bool {
	if !r.Robots.OK() || !r.Main.OK() {
		return false
	}
	for i := range r.Children {
		if !r.Children[i].OK() {
			return false
		}
	}
	return true
}

// Checker 通过 HTTP 检查一个已部署的站点
type Checker struct {
	client *http.Client
	logger *slog.Logger
}

// NewChecker client 为 nil 时使用带超时的默认客户端
func NewChecker(client *http.Client, log *slog.Logger) *Checker {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	return &Checker{client: client, logger: logger.For(log, "sitecheck")}
}

// Check 检查 robots.txt、/sitemap.xml 以及索引指向的所有分页
func (c *Checker) Check(ctx context.Context, site string) (*Report, error) {
	base, err := sitemap.CanonicalBaseURL(site)
	if err != nil {
		return nil, fmt.Errorf("invalid site url %q: %w", site, err)
	}

	report := &Report{Site: base, CheckedAt: time.Now()}
	report.Robots = c.checkRobots(ctx, base)
	doc, locs := c.checkDocument(ctx, base+constant.SitemapPath)
	report.Main = doc

	if report.Main.Kind == model.KindSitemapIndex {
		report.Children = c.checkChildren(ctx, locs)
	}
	return report, nil
}

func (c *Checker) checkRobots(ctx context.Context, base string) RobotsReport {
	r := RobotsReport{URL: base + constant.RobotsPath}

	status, _, body, err := c.fetch(ctx, r.URL)
	r.StatusCode = status
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
		return r
	}
	if status != http.StatusOK {
		r.Errors = append(r.Errors, fmt.Sprintf("robots.txt not found: HTTP %d", status))
		return r
	}
	r.Body = body

	data, err := robotstxt.FromString(body)
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("robots.txt does not parse: %v", err))
		return r
	}
	r.Sitemaps = data.Sitemaps
	if len(r.Sitemaps) == 0 {
		r.Warnings = append(r.Warnings, "no Sitemap: directive in robots.txt")
	}
	r.HasUserAgent = strings.Contains(strings.ToLower(body), "user-agent:")
	if !r.HasUserAgent {
		r.Warnings = append(r.Warnings, "no User-agent group in robots.txt")
	}
	r.SitemapCrawlable = data.TestAgent(constant.SitemapPath, "Googlebot")
	if !r.SitemapCrawlable {
		r.Errors = append(r.Errors, "robots.txt blocks "+constant.SitemapPath)
	}
	return r
}

// checkDocument 同时返回文档中的全部 <loc>，非 200 时为空
func (c *Checker) checkDocument(ctx context.Context, url string) (DocumentReport, []string) {
	d := DocumentReport{URL: url, Kind: model.KindUnknown}

	status, header, body, err := c.fetch(ctx, url)
	d.StatusCode = status
	if err != nil {
		d.Errors = append(d.Errors, err.Error())
		return d, nil
	}
	if status != http.StatusOK {
		d.Errors = append(d.Errors, fmt.Sprintf("HTTP %d", status))
		return d, nil
	}

	d.ContentType = header.Get("Content-Type")
	if !strings.Contains(d.ContentType, "xml") {
		d.Warnings = append(d.Warnings, fmt.Sprintf("Content-Type %q, expected application/xml", d.ContentType))
	}
	d.ReportedURLs = header.Get(constant.HeaderSitemapURLs)
	d.GenerationTime = header.Get(constant.HeaderGenerationMs)

	structure := sitemap.ValidateSitemapXML(body)
	d.Kind = structure.DocumentType
	d.ItemCount = structure.Stats.ItemCount
	d.Errors = append(d.Errors, structure.Errors...)
	d.Warnings = append(d.Warnings, structure.Warnings...)

	limits := sitemap.ValidateSitemapLimits(body, d.ItemCount, d.Kind)
	d.SizeBytes = limits.Stats.SizeBytes
	d.SizeFormatted = limits.Stats.SizeFormatted
	d.Errors = append(d.Errors, limits.Errors...)
	d.Warnings = append(d.Warnings, limits.Warnings...)

	locs := sitemap.ExtractURLs(body)
	d.Samples = locs[:min(sampleSize, len(locs))]
	return d, locs
}

// checkChildren 并发检查索引列出的每个分页
func (c *Checker) checkChildren(ctx context.Context, locs []string) []DocumentReport {
	out := make([]DocumentReport, len(locs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(childConcurrency)
	for i, loc := range locs {
		g.Go(func() error {
			out[i], _ = c.checkDocument(gctx, loc)
			if out[i].Kind == model.KindSitemapIndex {
				out[i].Errors = append(out[i].Errors, "nested sitemap index")
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (c *Checker) fetch(ctx context.Context, url string) (int, http.Header, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, "", err
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "fetch failed", "url", url, "error", err)
		return 0, nil, "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, constant.MaxSitemapBytes+1))
	if err != nil {
		return resp.StatusCode, resp.Header, "", fmt.Errorf("read %s: %w", url, err)
	}
	c.logger.DebugContext(ctx, "fetched", "url", url, "status", resp.StatusCode, "bytes", len(raw), "elapsed", time.Since(start))
	return resp.StatusCode, resp.Header, string(raw), nil
}
