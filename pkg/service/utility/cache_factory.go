/*
 * @Description: 缓存工厂，自动选择 Redis 或内存缓存
 * @Date: 2026-10-18 12:09:03
 */
package utility

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// CacheServiceType 缓存服务类型
type CacheServiceType string

const (
	CacheTypeRedis  CacheServiceType = "redis"
	CacheTypeMemory CacheServiceType = "memory"
)

// NewCacheServiceWithFallback redisClient 为 nil 或 ping 失败时降级到内存缓存
func NewCacheServiceWithFallback(ctx context.Context, redisClient *redis.Client, logger *slog.Logger) CacheService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if redisClient == nil {
		logger.Info("using memory cache")
		return NewMemoryCacheService()
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, falling back to memory cache", "error", err)
		return NewMemoryCacheService()
	}
	logger.Info("using redis cache")
	return NewCacheService(redisClient)
}

// GetCacheServiceType 当前使用的缓存类型
func GetCacheServiceType(svc CacheService) CacheServiceType {
	if _, ok := svc.(*redisCacheService); ok {
		return CacheTypeRedis
	}
	return CacheTypeMemory
}
