package database

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/calisto-ai/calisto-site/pkg/config"
)

// NewRedisClient 返回 Redis 客户端；未配置、配置无效或连接失败时返回 nil，由上层降级到内存缓存
func NewRedisClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) *redis.Client {
	addr := cfg.GetString(config.KeyRedisAddr)
	if addr == "" {
		logger.Info("redis address not configured")
		return nil
	}

	db := 0
	if raw := cfg.GetString(config.KeyRedisDB); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			logger.Warn("invalid redis db, using memory cache", "value", raw, "error", err)
			return nil
		}
		db = n
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.GetString(config.KeyRedisPassword),
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("failed to connect to redis, using memory cache", "addr", addr, "db", db, "error", err)
		_ = rdb.Close()
		return nil
	}

	logger.Info("connected to redis", "addr", addr, "db", db)
	return rdb
}
