/*
 * @Description: 站点地图服务：收集 -> 校验 -> 分页 -> 构建 -> 构建后校验
 * @Date: 2026-10-18 12:41:09
 */
package sitemap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/calisto-ai/calisto-site/pkg/constant"
	"github.com/calisto-ai/calisto-site/pkg/domain/model"
)

// ResultType 响应文档的形态，写入 X-Sitemap-Type
type ResultType string

const (
	TypeSingle    ResultType = "single"
	TypeIndex     ResultType = "index"
	TypePaginated ResultType = "paginated"
)

// Result 一次生成的结果
type Result struct {
	Document *model.GeneratedDocument `json:"document,omitempty"`
	Type     ResultType               `json:"type"`
	// EntryCount 单文档与分页为文档内的 URL 数，索引为全站 URL 总数
	EntryCount  int           `json:"entryCount"`
	TotalPages  int           `json:"totalPages"`
	Page        int           `json:"page,omitempty"`
	Duration    time.Duration `json:"duration"`
	Redirect    bool          `json:"redirect,omitempty"`
	RedirectURL string        `json:"redirectUrl,omitempty"`
}

// Service 站点地图服务接口
type Service interface {
	// GenerateSitemap 不超过 50,000 条时生成单个文档，否则生成指向各分页的索引
	GenerateSitemap(ctx context.Context) (*Result, error)
	// GenerateIndex 生成索引；站点足够小时返回 Redirect=true
	GenerateIndex(ctx context.Context) (*Result, error)
	// GeneratePage 生成第 page 页（从 1 开始）
	GeneratePage(ctx context.Context, page int) (*Result, error)
	// GenerateRobots 生成 robots.txt
	GenerateRobots(ctx context.Context) (string, error)
	// FallbackRobots 生成失败时使用的 robots.txt
	FallbackRobots() string
}

type service struct {
	collector     *Collector
	disallowIndex bool
	logger        *slog.Logger
	now           func() time.Time
}

// NewService 创建站点地图服务
func NewService(collector *Collector, disallowIndex bool, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &service{
		collector:     collector,
		disallowIndex: disallowIndex,
		logger:        logger,
		now:           collector.now,
	}
}

func (s *service) GenerateSitemap(ctx context.Context) (*Result, error) {
	start := time.Now()
	entries, err := s.collector.AllURLs(ctx)
	if err != nil {
		return nil, err
	}

	if len(entries) <= constant.MaxURLsPerSitemap {
		doc, err := s.buildURLSet(ctx, entries)
		if err != nil {
			return nil, err
		}
		res := &Result{
			Document:   doc,
			Type:       TypeSingle,
			EntryCount: doc.Stats.EntryCount,
			TotalPages: 1,
			Duration:   time.Since(start),
		}
		s.logGenerated(ctx, res, entries)
		return res, nil
	}

	res, err := s.buildIndex(ctx, entries)
	if err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)
	s.logGenerated(ctx, res, entries)
	return res, nil
}

func (s *service) GenerateIndex(ctx context.Context) (*Result, error) {
	start := time.Now()
	entries, err := s.collector.AllURLs(ctx)
	if err != nil {
		return nil, err
	}

	if len(entries) <= constant.MaxURLsPerSitemap {
		s.logger.InfoContext(ctx, "site fits one document, redirecting index", "count", len(entries))
		return &Result{
			Type:        TypeIndex,
			EntryCount:  len(entries),
			TotalPages:  1,
			Duration:    time.Since(start),
			Redirect:    true,
			RedirectURL: s.collector.BaseURL() + constant.SitemapPath,
		}, nil
	}

	res, err := s.buildIndex(ctx, entries)
	if err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)
	s.logGenerated(ctx, res, entries)
	return res, nil
}

func (s *service) GeneratePage(ctx context.Context, page int) (*Result, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: %d", constant.ErrInvalidPage, page)
	}

	start := time.Now()
	entries, err := s.collector.AllURLs(ctx)
	if err != nil {
		return nil, err
	}

	chunks := ChunkURLs(entries, constant.MaxURLsPerSitemap)
	if page > len(chunks) {
		return nil, fmt.Errorf("%w: sitemap %d, available pages: 1-%d", constant.ErrPageNotFound, page, len(chunks))
	}
	chunk := chunks[page-1]

	doc, err := s.buildURLSet(ctx, chunk.Entries)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Document:   doc,
		Type:       TypePaginated,
		EntryCount: doc.Stats.EntryCount,
		TotalPages: len(chunks),
		Page:       chunk.Index,
		Duration:   time.Since(start),
	}
	s.logGenerated(ctx, res, chunk.Entries)
	return res, nil
}

func (s *service) GenerateRobots(ctx context.Context) (string, error) {
	base := s.collector.BaseURL()
	body := BuildRobots(base, s.disallowIndex)
	if err := VerifyRobots(body, base); err != nil {
		return "", err
	}
	s.logger.DebugContext(ctx, "robots.txt generated", "disallow_index", s.disallowIndex)
	return body, nil
}

func (s *service) FallbackRobots() string {
	return FallbackRobots(s.collector.BaseURL())
}

// buildURLSet 构建前校验条目，构建后合并结构与限制校验；任何错误都使文档不可用
func (s *service) buildURLSet(ctx context.Context, entries []model.SiteURLEntry) (*model.GeneratedDocument, error) {
	base := s.collector.BaseURL()

	pre := ValidateSitemapData(entries, base)
	if !pre.Valid {
		s.logger.ErrorContext(ctx, "sitemap data is invalid", "errors", pre.Errors)
		return nil, invalidDocument(pre.Errors)
	}

	doc, err := BuildSitemapXML(entries, base)
	if err != nil {
		return nil, err
	}
	doc.Validation = pre.Merge(doc.Validation)
	return s.checkDocument(ctx, doc)
}

func (s *service) buildIndex(ctx context.Context, entries []model.SiteURLEntry) (*Result, error) {
	base := s.collector.BaseURL()
	now := s.now()

	pages := PageCount(len(entries), constant.MaxURLsPerSitemap)
	refs := make([]model.SitemapRef, 0, pages)
	for n := 1; n <= pages; n++ {
		refs = append(refs, model.SitemapRef{URL: PageURL(base, n), LastModified: model.Time(now)})
	}

	doc, err := BuildSitemapIndexXML(refs, base)
	if err != nil {
		return nil, err
	}
	if _, err := s.checkDocument(ctx, doc); err != nil {
		return nil, err
	}
	return &Result{
		Document:   doc,
		Type:       TypeIndex,
		EntryCount: len(entries),
		TotalPages: pages,
	}, nil
}

func (s *service) checkDocument(ctx context.Context, doc *model.GeneratedDocument) (*model.GeneratedDocument, error) {
	if len(doc.Validation.Warnings) > 0 {
		s.logger.WarnContext(ctx, "sitemap generated with warnings",
			"kind", doc.Kind, "warnings", doc.Validation.Warnings)
	}
	if !doc.IsValid() {
		s.logger.ErrorContext(ctx, "generated sitemap is invalid",
			"kind", doc.Kind, "errors", doc.Validation.Errors)
		return nil, invalidDocument(doc.Validation.Errors)
	}
	return doc, nil
}

func (s *service) logGenerated(ctx context.Context, res *Result, entries []model.SiteURLEntry) {
	stats := CalculateStats(entries)
	s.logger.InfoContext(ctx, "sitemap generated",
		"type", res.Type,
		"page", res.Page,
		"total_pages", res.TotalPages,
		"urls", stats.Total,
		"with_images", stats.WithImages,
		"with_videos", stats.WithVideos,
		"with_alternates", stats.WithAlternates,
		"priorities", stats.Priorities,
		"change_frequencies", stats.ChangeFrequencies,
		"size", res.Document.Stats.SizeFormatted,
		"duration_ms", res.Duration.Milliseconds(),
	)
}

func invalidDocument(errs []string) error {
	return fmt.Errorf("%w: %s", constant.ErrInvalidDocument, strings.Join(errs, ", "))
}
