/*
 * @Description: 内存缓存服务实现（Redis 未配置或不可用时的降级方案）
 * @Date: 2026-10-18 12:06:40
 */
package utility

import (
	"context"
	"sync"
	"time"
)

type cacheItem struct {
	value      string
	expiration time.Time
	hasExpiry  bool
}

func (item *cacheItem) isExpired(now time.Time) bool {
	return item.hasExpiry && now.After(item.expiration)
}

// MemoryCacheService 基于 sync.Map 的缓存，后台定期清理过期数据
type MemoryCacheService struct {
	data     sync.Map
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewMemoryCacheService 创建内存缓存服务实例，使用完毕后调用 Stop
func NewMemoryCacheService() *MemoryCacheService {
	svc := &MemoryCacheService{
		ticker: time.NewTicker(time.Minute),
		done:   make(chan struct{}),
		now:    time.Now,
	}
	go svc.cleanupExpired()
	return svc
}

func (s *MemoryCacheService) cleanupExpired() {
	for {
		select {
		case <-s.ticker.C:
			now := s.now()
			s.data.Range(func(key, value any) bool {
				if item, ok := value.(*cacheItem); ok && item.isExpired(now) {
					s.data.Delete(key)
				}
				return true
			})
		case <-s.done:
			return
		}
	}
}

// Stop 停止清理任务，可重复调用
func (s *MemoryCacheService) Stop() {
	s.stopOnce.Do(func() {
		s.ticker.Stop()
		close(s.done)
	})
}

func (s *MemoryCacheService) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	item := &cacheItem{value: value, hasExpiry: expiration > 0}
	if expiration > 0 {
		item.expiration = s.now().Add(expiration)
	}
	s.data.Store(key, item)
	return nil
}

func (s *MemoryCacheService) Get(_ context.Context, key string) (string, error) {
	value, ok := s.data.Load(key)
	if !ok {
		return "", nil
	}
	item, ok := value.(*cacheItem)
	if !ok {
		return "", nil
	}
	if item.isExpired(s.now()) {
		s.data.Delete(key)
		return "", nil
	}
	return item.value, nil
}

func (s *MemoryCacheService) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.data.Delete(key)
	}
	return nil
}
