/*
 * @Description: 站点地图 URL 收集：静态路由、目录派生的动态路由与可注册的扩展来源
 * @Date: 2026-10-18 11:40:27
 */
package sitemap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/calisto-ai/calisto-site/pkg/constant"
	"github.com/calisto-ai/calisto-site/pkg/domain/model"
	"github.com/calisto-ai/calisto-site/pkg/domain/repository"
)

// staticRoute 手工维护的顶级页面
type staticRoute struct {
	path     string
	freq     model.ChangeFrequency
	priority float64
}

var staticRoutes = []staticRoute{
	{"", model.ChangeFreqDaily, 1.0},
	{"/servicos", model.ChangeFreqWeekly, 0.9},
	{"/sobre", model.ChangeFreqMonthly, 0.8},
	{"/contato", model.ChangeFreqMonthly, 0.7},
	{"/privacidade", model.ChangeFreqYearly, 0.3},
}

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._~-]*$`)

// RouteSource 内容派生路由的来源。返回错误时，已经返回的条目仍然会被保留。
type RouteSource interface {
	Name() string
	Routes(ctx context.Context, base string, now time.Time) ([]model.SiteURLEntry, error)
}

// Collector 收集站点的全部 URL
type Collector struct {
	base    string
	sources []RouteSource
	logger  *slog.Logger
	now     func() time.Time
}

// CollectorOption 定制 Collector
type CollectorOption func(*Collector)

// WithClock 替换时间来源，测试使用
func WithClock(now func() time.Time) CollectorOption {
	return func(c *Collector) { c.now = now }
}

// WithRouteSources 在服务目录之后追加更多动态路由来源
func WithRouteSources(sources ...RouteSource) CollectorOption {
	return func(c *Collector) { c.sources = append(c.sources, sources...) }
}

// NewCollector 创建收集器，catalog 为 nil 时没有目录来源
func NewCollector(base string, catalog repository.CatalogRepository, logger *slog.Logger, opts ...CollectorOption) *Collector {
	c := &Collector{
		base:   strings.TrimRight(base, "/"),
		logger: logger,
		now:    time.Now,
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if catalog != nil {
		c.sources = append(c.sources, NewCatalogSource(catalog))
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL 规范站点地址
func (c *Collector) BaseURL() string {
	return c.base
}

// StaticRoutes 顶级页面。单个路径规范化失败只会跳过该路径。
func (c *Collector) StaticRoutes(ctx context.Context) []model.SiteURLEntry {
	now := c.now()
	entries, warnings := fold(staticRoutes, func(r staticRoute) (model.SiteURLEntry, error) {
		loc, err := NormalizeURL(c.base, r.path)
		if err != nil {
			return model.SiteURLEntry{}, fmt.Errorf("static route %q: %w", r.path, err)
		}
		return model.SiteURLEntry{
			URL:             loc,
			LastModified:    model.Time(now),
			ChangeFrequency: r.freq,
			Priority:        model.Priority(r.priority),
		}, nil
	})
	for _, w := range warnings {
		c.logger.WarnContext(ctx, "skipping static route", "reason", w)
	}
	return entries
}

// DynamicRoutes 依次执行每个来源。失败的来源只记录日志，已收集的路由保留；
// 返回的错误聚合了所有来源的失败，调用方可以忽略。
func (c *Collector) DynamicRoutes(ctx context.Context) ([]model.SiteURLEntry, error) {
	now := c.now()
	var (
		entries []model.SiteURLEntry
		result  *multierror.Error
	)
	for _, src := range c.sources {
		routes, err := src.Routes(ctx, c.base, now)
		entries = append(entries, routes...)
		if err != nil {
			c.logger.WarnContext(ctx, "route source failed, keeping collected routes",
				"source", src.Name(), "collected", len(routes), "error", err)
			result = multierror.Append(result, fmt.Errorf("%s: %w", src.Name(), err))
		}
	}
	return entries, result.ErrorOrNil()
}

// AllURLs 并发收集静态与动态路由，去重（先出现者保留），丢弃不合法或不属于本站的地址。
// 任何意外失败都会退回到只使用静态路由，只有退回后仍为空才返回错误。
func (c *Collector) AllURLs(ctx context.Context) ([]model.SiteURLEntry, error) {
	entries, err := c.collect(ctx)
	if err == nil {
		return entries, nil
	}

	c.logger.ErrorContext(ctx, "url collection failed, falling back to static routes", "error", err)
	fallback, _ := c.filter(ctx, c.StaticRoutes(ctx))
	if len(fallback) == 0 {
		return nil, fmt.Errorf("%w: static fallback is empty: %w", constant.ErrNoURLs, err)
	}
	return fallback, nil
}

func (c *Collector) collect(ctx context.Context) (entries []model.SiteURLEntry, err error) {
	var static, dynamic []model.SiteURLEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer recoverInto(&err, "static routes")
		static = c.StaticRoutes(gctx)
		return nil
	})
	g.Go(func() (err error) {
		defer recoverInto(&err, "dynamic routes")
		// 来源失败已在 DynamicRoutes 内部记录，这里只关心 panic
		dynamic, _ = c.DynamicRoutes(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	defer recoverInto(&err, "url post-processing")

	all := make([]model.SiteURLEntry, 0, len(static)+len(dynamic))
	all = append(all, static...)
	all = append(all, dynamic...)

	unique, duplicates := dedupe(all)
	for _, d := range duplicates {
		c.logger.WarnContext(ctx, "duplicate url dropped", "url", d)
	}

	kept, dropped := c.filter(ctx, unique)
	if len(kept) == 0 {
		return nil, constant.ErrNoURLs
	}

	c.logger.DebugContext(ctx, "urls collected",
		"static", len(static), "dynamic", len(dynamic),
		"duplicates", len(duplicates), "dropped", dropped, "total", len(kept))
	return kept, nil
}

// filter 丢弃非绝对地址或与站点地址不一致的条目
func (c *Collector) filter(ctx context.Context, entries []model.SiteURLEntry) ([]model.SiteURLEntry, int) {
	kept := entries[:0:0]
	dropped := 0
	for _, e := range entries {
		if !ValidateAbsoluteURL(e.URL) {
			c.logger.WarnContext(ctx, "dropping invalid url", "url", e.URL)
			dropped++
			continue
		}
		if errs := ValidateDomainConsistency(c.base, []string{e.URL}); len(errs) > 0 {
			c.logger.WarnContext(ctx, "dropping url outside the site", "url", e.URL, "reasons", errs)
			dropped++
			continue
		}
		kept = append(kept, e)
	}
	return kept, dropped
}

func dedupe(entries []model.SiteURLEntry) ([]model.SiteURLEntry, []string) {
	seen := make(map[string]struct{}, len(entries))
	out := make([]model.SiteURLEntry, 0, len(entries))
	var duplicates []string
	for _, e := range entries {
		if _, ok := seen[e.URL]; ok {
			duplicates = append(duplicates, e.URL)
			continue
		}
		seen[e.URL] = struct{}{}
		out = append(out, e)
	}
	return out, duplicates
}

func recoverInto(err *error, stage string) {
	if p := recover(); p != nil {
		*err = fmt.Errorf("%s panicked: %v", stage, p)
	}
}

// catalogSource 每个目录条目一个 /servicos/{id}
type catalogSource struct {
	repo repository.CatalogRepository
}

// NewCatalogSource 以服务目录作为动态路由来源
func NewCatalogSource(repo repository.CatalogRepository) RouteSource {
	return &catalogSource{repo: repo}
}

func (s *catalogSource) Name() string { return "catalog" }

func (s *catalogSource) Routes(ctx context.Context, base string, now time.Time) ([]model.SiteURLEntry, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	entries, warnings := fold(services, func(svc *model.CatalogService) (model.SiteURLEntry, error) {
		if svc == nil {
			return model.SiteURLEntry{}, errors.New("nil catalog item")
		}
		id := strings.TrimSpace(svc.ID)
		if !slugPattern.MatchString(id) {
			return model.SiteURLEntry{}, fmt.Errorf("catalog item %q has an invalid id", svc.ID)
		}
		loc, err := NormalizeURL(base, "/servicos/"+id)
		if err != nil {
			return model.SiteURLEntry{}, err
		}
		return model.SiteURLEntry{
			URL:             loc,
			LastModified:    model.Time(now),
			ChangeFrequency: model.ChangeFreqMonthly,
			Priority:        model.Priority(0.6),
		}, nil
	})
	if len(warnings) > 0 {
		var result *multierror.Error
		for _, w := range warnings {
			result = multierror.Append(result, errors.New(w))
		}
		return entries, result
	}
	return entries, nil
}
