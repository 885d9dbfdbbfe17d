// calisto-site/cmd/server/app.go
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/calisto-ai/calisto-site/internal/app/middleware"
	"github.com/calisto-ai/calisto-site/internal/app/task"
	"github.com/calisto-ai/calisto-site/internal/infra/persistence/catalog"
	"github.com/calisto-ai/calisto-site/internal/infra/persistence/database"
	"github.com/calisto-ai/calisto-site/internal/infra/router"
	"github.com/calisto-ai/calisto-site/internal/pkg/logger"
	"github.com/calisto-ai/calisto-site/internal/pkg/version"
	"github.com/calisto-ai/calisto-site/pkg/config"
	contact_handler "github.com/calisto-ai/calisto-site/pkg/handler/contact"
	sitemap_handler "github.com/calisto-ai/calisto-site/pkg/handler/sitemap"
	version_handler "github.com/calisto-ai/calisto-site/pkg/handler/version"
	"github.com/calisto-ai/calisto-site/pkg/service/contact"
	"github.com/calisto-ai/calisto-site/pkg/service/sitemap"
	"github.com/calisto-ai/calisto-site/pkg/service/utility"
)

// Options 启动参数
type Options struct {
	ConfigFile string
	EnvFile    string
}

// App 结构体，用于封装应用的所有核心组件
type App struct {
	cfg        *config.Config
	siteEnv    config.SiteEnv
	engine     *gin.Engine
	server     *http.Server
	taskBroker *task.Broker
	cacheSvc   utility.CacheService
	baseURL    string
	logger     *slog.Logger
}

// NewApp 按依赖顺序构建应用，返回的 cleanup 关闭日志文件、缓存和 Redis 连接
func NewApp(opts Options) (*App, func(), error) {
	// --- Phase 1: 加载外部配置 ---
	if opts.ConfigFile == "" {
		opts.ConfigFile = config.DefaultConfigFile
	}
	cfg, err := config.NewConfigFrom(opts.ConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	siteEnv, err := config.LoadSiteEnv(opts.EnvFile)
	if err != nil {
		return nil, nil, err
	}
	if _, set := os.LookupEnv("APP_ENV"); !set {
		if mode := strings.ToLower(cfg.GetString(config.KeyServerMode)); mode != "" {
			siteEnv.Mode = mode
		}
	}

	rootLogger, logCloser := logger.Setup(logger.Options{
		Debug: cfg.GetBool(config.KeyServerDebug),
		File:  cfg.GetString(config.KeyLogFile),
	})
	appLogger := logger.For(rootLogger, "app")

	// --- Phase 2: 解析站点 URL，生产环境缺失时拒绝启动 ---
	baseURL, err := sitemap.ResolveBaseURL(siteEnv, cfg.GetString(config.KeySiteURL))
	if err != nil {
		logCloser.Close()
		return nil, nil, err
	}
	disallowIndex := siteEnv.ShouldDisallowIndex() || cfg.GetBool(config.KeySiteDisallowIndex)
	appLogger.Info("site resolved", "base_url", baseURL, "mode", siteEnv.Mode, "disallow_index", disallowIndex)

	// --- Phase 3: 初始化基础设施 ---
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	redisClient := database.NewRedisClient(ctx, cfg, logger.For(rootLogger, "redis"))
	cacheSvc := utility.NewCacheServiceWithFallback(ctx, redisClient, logger.For(rootLogger, "cache"))

	catalogRepo, err := catalog.NewYAMLCatalogRepository(cfg.GetString(config.KeyCatalogFile))
	if err != nil {
		closeAll(logCloser, cacheSvc, redisClient)
		return nil, nil, err
	}

	// --- Phase 4: 初始化业务逻辑层 ---
	collector := sitemap.NewCollector(baseURL, catalogRepo, logger.For(rootLogger, "sitemap-sources"))
	sitemapSvc := sitemap.NewService(collector, disallowIndex, logger.For(rootLogger, "sitemap"))
	cachedSitemapSvc := sitemap.NewCachedService(sitemapSvc, cacheSvc, logger.For(rootLogger, "sitemap-cache"))

	if err := contact.RegisterBindingValidators(); err != nil {
		closeAll(logCloser, cacheSvc, redisClient)
		return nil, nil, err
	}
	notifier := contact.NewNotifier(contact.MailConfigFrom(cfg), logger.For(rootLogger, "mail"))
	contactSvc := contact.NewService(notifier, logger.For(rootLogger, "contact"))

	taskBroker := task.NewBroker(cachedSitemapSvc, logger.For(rootLogger, "task_broker"))

	// --- Phase 5: 初始化表现层 ---
	if siteEnv.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	appRouter := router.NewRouter(
		sitemap_handler.NewHandler(cachedSitemapSvc, logger.For(rootLogger, "sitemap-http")),
		contact_handler.NewHandler(contactSvc, logger.For(rootLogger, "contact-http")),
		version_handler.NewHandler(string(utility.GetCacheServiceType(cacheSvc)), baseURL),
		middleware.ContactRateLimit(),
		baseURL,
		logger.For(rootLogger, "crawl"),
	)
	appRouter.Setup(engine)

	port := cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "3010"
	}

	app := &App{
		cfg:     cfg,
		siteEnv: siteEnv,
		engine:  engine,
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		taskBroker: taskBroker,
		cacheSvc:   cacheSvc,
		baseURL:    baseURL,
		logger:     appLogger,
	}

	cleanup := func() {
		appLogger.Info("closing cache and log file")
		closeAll(logCloser, cacheSvc, redisClient)
	}
	return app, cleanup, nil
}

// closeAll 关闭可选的资源，nil 会被跳过
func closeAll(logCloser io.Closer, cacheSvc utility.CacheService, redisClient *redis.Client) {
	if m, ok := cacheSvc.(*utility.MemoryCacheService); ok {
		m.Stop()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	_ = logCloser.Close()
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}

// BaseURL 站点的规范 URL
func (a *App) BaseURL() string {
	return a.baseURL
}

// Run 注册周期任务并阻塞监听端口，Shutdown 后返回 nil
func (a *App) Run() error {
	if err := a.taskBroker.RegisterCronJobs(); err != nil {
		return err
	}
	a.taskBroker.Start()

	a.logger.Info("server listening", "addr", a.server.Addr, "version", version.GetVersionString())

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 停止接收新请求，等待进行中的请求结束
func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

func (a *App) Stop() {
	if a.taskBroker != nil {
		a.taskBroker.Stop()
	}
}
