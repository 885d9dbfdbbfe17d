/*
 * @Description: 站点地图读穿缓存，一小时的重新验证窗口
 * @Date: 2026-10-18 13:02:44
 */
package sitemap

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/calisto-ai/calisto-site/pkg/constant"
	"github.com/calisto-ai/calisto-site/pkg/service/utility"
)

// CachedService 在 Service 外包一层读穿缓存，只缓存成功的结果
type CachedService struct {
	next   Service
	cache  utility.CacheService
	logger *slog.Logger
}

var _ Service = (*CachedService)(nil)

// NewCachedService 创建带缓存的站点地图服务
func NewCachedService(next Service, cache utility.CacheService, logger *slog.Logger) *CachedService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CachedService{next: next, cache: cache, logger: logger}
}

func (s *CachedService) GenerateSitemap(ctx context.Context) (*Result, error) {
	return s.cachedResult(ctx, constant.SitemapCacheMain, s.next.GenerateSitemap)
}

func (s *CachedService) GenerateIndex(ctx context.Context) (*Result, error) {
	return s.cachedResult(ctx, constant.SitemapCacheIdx, s.next.GenerateIndex)
}

func (s *CachedService) GeneratePage(ctx context.Context, page int) (*Result, error) {
	return s.cachedResult(ctx, pageCacheKey(page), func(ctx context.Context) (*Result, error) {
		return s.next.GeneratePage(ctx, page)
	})
}

func (s *CachedService) GenerateRobots(ctx context.Context) (string, error) {
	if body, err := s.cache.Get(ctx, constant.RobotsCacheKey); err == nil && body != "" {
		return body, nil
	} else if err != nil {
		s.logger.WarnContext(ctx, "robots cache read failed", "error", err)
	}

	body, err := s.next.GenerateRobots(ctx)
	if err != nil {
		return "", err
	}
	if err := s.cache.Set(ctx, constant.RobotsCacheKey, body, constant.RobotsCacheTTL); err != nil {
		s.logger.WarnContext(ctx, "robots cache write failed", "error", err)
	}
	return body, nil
}

func (s *CachedService) FallbackRobots() string {
	return s.next.FallbackRobots()
}

// Refresh 清空站点地图缓存并重新生成主文档，返回新的结果
func (s *CachedService) Refresh(ctx context.Context) (*Result, error) {
	keys := []string{constant.SitemapCacheMain, constant.SitemapCacheIdx}
	if prev, ok := s.load(ctx, constant.SitemapCacheMain); ok {
		for n := 1; n <= prev.TotalPages; n++ {
			keys = append(keys, pageCacheKey(n))
		}
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.WarnContext(ctx, "failed to clear sitemap cache", "error", err)
	}
	return s.GenerateSitemap(ctx)
}

func (s *CachedService) cachedResult(ctx context.Context, key string, generate func(context.Context) (*Result, error)) (*Result, error) {
	if res, ok := s.load(ctx, key); ok {
		return res, nil
	}

	res, err := generate(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(res)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to encode sitemap for cache", "key", key, "error", err)
		return res, nil
	}
	if err := s.cache.Set(ctx, key, string(raw), constant.SitemapCacheTTL); err != nil {
		s.logger.WarnContext(ctx, "sitemap cache write failed", "key", key, "error", err)
	}
	return res, nil
}

func (s *CachedService) load(ctx context.Context, key string) (*Result, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "sitemap cache read failed", "key", key, "error", err)
		return nil, false
	}
	if raw == "" {
		return nil, false
	}
	var res Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		s.logger.WarnContext(ctx, "discarding corrupt sitemap cache entry", "key", key, "error", err)
		return nil, false
	}
	s.logger.DebugContext(ctx, "sitemap served from cache", "key", key)
	return &res, true
}

func pageCacheKey(page int) string {
	return constant.SitemapCachePage + strconv.Itoa(page)
}
