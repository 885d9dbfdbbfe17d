package sitemap

import (
	"context"
	"fmt"
	"time"

	"github.com/calisto-ai/calisto-site/pkg/constant"
	"github.com/calisto-ai/calisto-site/pkg/domain/model"
)

const testBase = "https://example.com"

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// fakeCatalog 内存中的服务目录
type fakeCatalog struct {
	services []*model.CatalogService
	err      error
}

func (f *fakeCatalog) ListServices(ctx context.Context) ([]*model.CatalogService, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.services, nil
}

func (f *fakeCatalog) FindByID(ctx context.Context, id string) (*model.CatalogService, error) {
	for _, s := range f.services {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, constant.ErrNotFound
}

func catalogOf(ids ...string) *fakeCatalog {
	c := &fakeCatalog{}
	for _, id := range ids {
		c.services = append(c.services, &model.CatalogService{ID: id, Title: id})
	}
	return c
}

// fourServices 小站点场景：4 个服务 + 5 个静态页面
func fourServices() *fakeCatalog {
	return catalogOf("automacao-cartorios", "deteccao-fogo-fumaca", "integracoes-dashboards", "monitoramento-tempo-real")
}

// funcSource 用函数实现 RouteSource
type funcSource struct {
	name string
	fn   func(ctx context.Context, base string, now time.Time) ([]model.SiteURLEntry, error)
}

func (s funcSource) Name() string { return s.name }

func (s funcSource) Routes(ctx context.Context, base string, now time.Time) ([]model.SiteURLEntry, error) {
	return s.fn(ctx, base, now)
}

// bulkSource 生成 n 个 /p/{i} 页面
func bulkSource(n int) RouteSource {
	return funcSource{name: "bulk", fn: func(_ context.Context, base string, now time.Time) ([]model.SiteURLEntry, error) {
		out := make([]model.SiteURLEntry, n)
		for i := range out {
			out[i] = model.SiteURLEntry{
				URL:             fmt.Sprintf("%s/p/%d", base, i),
				LastModified:    model.Time(now),
				ChangeFrequency: model.ChangeFreqWeekly,
				Priority:        model.Priority(0.5),
			}
		}
		return out, nil
	}}
}

func entriesFor(paths ...string) []model.SiteURLEntry {
	out := make([]model.SiteURLEntry, 0, len(paths))
	for _, p := range paths {
		out = append(out, model.SiteURLEntry{URL: testBase + p})
	}
	return out
}

func newTestCollector(catalog *fakeCatalog, sources ...RouteSource) *Collector {
	var opts []CollectorOption
	opts = append(opts, WithClock(fixedClock))
	if len(sources) > 0 {
		opts = append(opts, WithRouteSources(sources...))
	}
	if catalog == nil {
		return NewCollector(testBase, nil, nil, opts...)
	}
	return NewCollector(testBase, catalog, nil, opts...)
}
