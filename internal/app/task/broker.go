// internal/app/task/broker.go
package task

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// SitemapWarmupSchedule 每小时整点，与站点地图缓存窗口一致
const SitemapWarmupSchedule = "0 0 * * * *"

// Broker 是后台任务模块的协调者，负责周期任务和一次性任务
type Broker struct {
	cron      *cron.Cron
	logger    *slog.Logger
	jobQueue  chan Job
	workers   int
	refresher SitemapRefresher
	done      chan struct{}
}

// NewBroker 是 Broker 的构造函数
func NewBroker(refresher SitemapRefresher, logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			NewPanicRecoveryWrapper(logger),
			NewLoggingWrapper(logger),
			cron.SkipIfStillRunning(cron.DiscardLogger),
		),
	)

	broker := &Broker{
		cron:      c,
		logger:    logger,
		jobQueue:  make(chan Job, 16),
		workers:   2,
		refresher: refresher,
		done:      make(chan struct{}),
	}
	broker.startWorkerPool()
	return broker
}

// startWorkerPool 启动固定数量的 worker 处理派发的任务
func (b *Broker) startWorkerPool() {
	b.logger.Info("starting task worker pool", "concurrency", b.workers)
	exited := make(chan struct{}, b.workers)

	for i := 0; i < b.workers; i++ {
		workerID := i + 1
		go func() {
			defer func() { exited <- struct{}{} }()
			chain := cron.NewChain(NewPanicRecoveryWrapper(b.logger), NewLoggingWrapper(b.logger))
			for job := range b.jobQueue {
				b.logger.Debug("worker picked up a job", "worker_id", workerID, "job_name", job.Name())
				chain.Then(job).Run()
			}
		}()
	}

	go func() {
		for i := 0; i < b.workers; i++ {
			<-exited
		}
		close(b.done)
	}()
}

// RegisterCronJobs 注册所有周期性任务
func (b *Broker) RegisterCronJobs() error {
	if b.refresher == nil {
		return nil
	}
	if _, err := b.cron.AddJob(SitemapWarmupSchedule, NewSitemapWarmupJob(b.refresher, b.logger)); err != nil {
		return fmt.Errorf("add SitemapWarmupJob: %w", err)
	}
	b.logger.Info("registered periodic job", "job_name", "SitemapWarmupJob", "schedule", "every hour")
	return nil
}

// Dispatch 将任务放入队列；队列已满时丢弃并返回 false
func (b *Broker) Dispatch(job Job) bool {
	select {
	case b.jobQueue <- job:
		return true
	default:
		b.logger.Warn("job queue full, dropping job", "job_name", job.Name())
		return false
	}
}

// DispatchSitemapWarmup 立即在后台预热一次
func (b *Broker) DispatchSitemapWarmup() {
	if b.refresher == nil {
		return
	}
	b.Dispatch(NewSitemapWarmupJob(b.refresher, b.logger))
}

// Start 启动调度器，并在启动时预热一次站点地图
func (b *Broker) Start() {
	b.cron.Start()
	b.logger.Info("task broker started")
	b.DispatchSitemapWarmup()
}

// Stop 等待正在运行的周期任务和队列中的任务结束
func (b *Broker) Stop() {
	b.logger.Info("stopping task broker")
	ctx := b.cron.Stop()
	<-ctx.Done()
	close(b.jobQueue)
	<-b.done
	b.logger.Info("task broker stopped")
}
