/*
 * @Description: 站点地图预热任务
 * @Date: 2026-10-18 15:29:52
 */
package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/calisto-ai/calisto-site/pkg/service/sitemap"
)

// SitemapWarmupTimeout 单次预热的最长时间
const SitemapWarmupTimeout = 2 * time.Minute

// SitemapRefresher 清除缓存并重新生成站点地图
type SitemapRefresher interface {
	Refresh(ctx context.Context) (*sitemap.Result, error)
}

// SitemapWarmupJob 让缓存窗口结束后的第一个爬虫请求直接命中新文档
type SitemapWarmupJob struct {
	refresher SitemapRefresher
	logger    *slog.Logger
	timeout   time.Duration
}

func NewSitemapWarmupJob(refresher SitemapRefresher, logger *slog.Logger) *SitemapWarmupJob {
	return &SitemapWarmupJob{
		refresher: refresher,
		logger:    logger,
		timeout:   SitemapWarmupTimeout,
	}
}

func (j *SitemapWarmupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	res, err := j.refresher.Refresh(ctx)
	if err != nil {
		j.logger.Error("sitemap warmup failed", "job_name", j.Name(), "error", err)
		return
	}
	j.logger.Info("sitemap warmed up",
		"job_name", j.Name(),
		"type", res.Type,
		"urls", res.EntryCount,
		"pages", res.TotalPages,
		"duration", res.Duration,
	)
}

func (j *SitemapWarmupJob) Name() string {
	return "SitemapWarmupJob"
}
