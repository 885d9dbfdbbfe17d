// internal/infra/router/router.go
package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calisto-ai/calisto-site/internal/app/middleware"
	contact_handler "github.com/calisto-ai/calisto-site/pkg/handler/contact"
	sitemap_handler "github.com/calisto-ai/calisto-site/pkg/handler/sitemap"
	version_handler "github.com/calisto-ai/calisto-site/pkg/handler/version"
)

// NoCacheMiddleware API 响应不允许被 CDN 缓存
func NoCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	sitemapHandler   *sitemap_handler.Handler
	contactHandler   *contact_handler.Handler
	versionHandler   *version_handler.Handler
	contactRateLimit gin.HandlerFunc
	allowedOrigin    string
	logger           *slog.Logger
}

// NewRouter 通过依赖注入接收所有处理器。contactRateLimit 为 nil 时使用默认的联系表单限流。
func NewRouter(
	sitemapHandler *sitemap_handler.Handler,
	contactHandler *contact_handler.Handler,
	versionHandler *version_handler.Handler,
	contactRateLimit gin.HandlerFunc,
	allowedOrigin string,
	logger *slog.Logger,
) *Router {
	if contactRateLimit == nil {
		contactRateLimit = middleware.ContactRateLimit()
	}
	return &Router{
		sitemapHandler:   sitemapHandler,
		contactHandler:   contactHandler,
		versionHandler:   versionHandler,
		contactRateLimit: contactRateLimit,
		allowedOrigin:    allowedOrigin,
		logger:           logger,
	}
}

// Setup 将所有路由注册到 Gin 引擎
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Cors(r.allowedOrigin))
	engine.Use(middleware.CrawlerStatistics(r.logger))

	apiGroup := engine.Group("/api")
	apiGroup.Use(NoCacheMiddleware())

	r.registerContactRoutes(apiGroup)
	r.registerVersionRoutes(apiGroup)
	r.registerSitemapRoutes(engine) // 直接注册到engine，不使用/api前缀
}

// registerSitemapRoutes 站点地图路由直接注册到根路径，供搜索引擎使用
func (r *Router) registerSitemapRoutes(engine *gin.Engine) {
	// GET /sitemap.xml - 单个 urlset 或 sitemapindex
	engine.GET("/sitemap.xml", r.sitemapHandler.GetSitemap)

	// GET /sitemap-index.xml - 站点较小时 301 到 /sitemap.xml
	engine.GET("/sitemap-index.xml", r.sitemapHandler.GetSitemapIndex)

	// GET /sitemaps/sitemap-{n}.xml - 第 n 页
	engine.GET("/sitemaps/:file", r.sitemapHandler.GetSitemapPage)

	// GET /robots.txt - 搜索引擎抓取规则
	engine.GET("/robots.txt", r.sitemapHandler.GetRobots)
}

// registerContactRoutes 联系表单只接受 POST，其他方法返回 405
func (r *Router) registerContactRoutes(api *gin.RouterGroup) {
	contactGroup := api.Group("/contact")
	{
		contactGroup.POST("", r.contactRateLimit, r.contactHandler.Submit)
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
			contactGroup.Handle(method, "", r.contactHandler.MethodNotAllowed)
		}
	}
}

// registerVersionRoutes 版本信息与健康检查，公开接口
func (r *Router) registerVersionRoutes(api *gin.RouterGroup) {
	api.GET("/version", r.versionHandler.GetVersion)
	api.GET("/health", r.versionHandler.Health)
}
