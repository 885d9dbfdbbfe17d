/*
 * @Description: 站点地图处理器
 * @Date: 2026-10-18 13:40:12
 */
package sitemap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/calisto-ai/calisto-site/pkg/constant"
	"github.com/calisto-ai/calisto-site/pkg/service/sitemap"
)

const (
	contentTypeXML   = "application/xml; charset=utf-8"
	contentTypePlain = "text/plain; charset=utf-8"
	// fallbackRobotsCacheControl 兜底策略只缓存一小时，尽快恢复正常策略
	fallbackRobotsCacheControl = "public, max-age=3600, s-maxage=3600"
)

// Handler 站点地图处理器
type Handler struct {
	sitemapService sitemap.Service
	logger         *slog.Logger
}

// NewHandler 创建站点地图处理器
func NewHandler(sitemapService sitemap.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		sitemapService: sitemapService,
		logger:         logger,
	}
}

// GetSitemap 获取站点地图
// @Summary      获取站点地图
// @Description  URL 不超过 50,000 个时返回单个 urlset，否则返回指向分页的 sitemapindex
// @Tags         站点地图
// @Produce      xml
// @Success      200  {string}  string  "XML格式的站点地图"
// @Failure      500  {string}  string  "生成失败"
// @Router       /sitemap.xml [get]
func (h *Handler) GetSitemap(c *gin.Context) {
	res, err := h.sitemapService.GenerateSitemap(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.writeDocument(c, res)
}

// GetSitemapIndex 获取站点地图索引
// @Summary      获取站点地图索引
// @Description  站点足够小时 301 重定向到 /sitemap.xml
// @Tags         站点地图
// @Produce      xml
// @Success      200  {string}  string  "XML格式的站点地图索引"
// @Success      301  {string}  string  "重定向到 /sitemap.xml"
// @Failure      500  {string}  string  "生成失败"
// @Router       /sitemap-index.xml [get]
func (h *Handler) GetSitemapIndex(c *gin.Context) {
	res, err := h.sitemapService.GenerateIndex(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if res.Redirect {
		c.Redirect(http.StatusMovedPermanently, res.RedirectURL)
		return
	}
	h.writeDocument(c, res)
}

// GetSitemapPage 获取分页站点地图
// @Summary      获取分页站点地图
// @Tags         站点地图
// @Produce      xml
// @Param        file  path      string  true  "sitemap-{n}.xml"
// @Success      200   {string}  string  "第 n 页的 urlset"
// @Failure      400   {string}  string  "页码不是正整数"
// @Failure      404   {string}  string  "页码超出范围"
// @Router       /sitemaps/{file} [get]
func (h *Handler) GetSitemapPage(c *gin.Context) {
	page, err := ParsePageFile(c.Param("file"))
	if err != nil {
		h.fail(c, err)
		return
	}

	res, err := h.sitemapService.GeneratePage(c.Request.Context(), page)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.writeDocument(c, res)
}

// GetRobots 获取robots.txt，出错时返回兜底策略，永远不会失败
// @Summary      获取robots.txt
// @Tags         站点地图
// @Produce      plain
// @Success      200  {string}  string  "robots.txt内容"
// @Router       /robots.txt [get]
func (h *Handler) GetRobots(c *gin.Context) {
	body, err := h.sitemapService.GenerateRobots(c.Request.Context())
	cacheControl := constant.RobotsCacheControl
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "robots.txt generation failed, serving fallback", "error", err)
		body = h.sitemapService.FallbackRobots()
		cacheControl = fallbackRobotsCacheControl
	}

	c.Header("Cache-Control", cacheControl)
	c.Header(constant.HeaderRobotsTag, "noindex")
	c.Data(http.StatusOK, contentTypePlain, []byte(body))
}

// ParsePageFile 解析 sitemap-{n}.xml 中的页码
func ParsePageFile(file string) (int, error) {
	raw, ok := strings.CutPrefix(file, "sitemap-")
	if ok {
		raw, ok = strings.CutSuffix(raw, ".xml")
	}
	// 只接受规范写法：纯数字且不带前导零
	if !ok || !isCanonicalPage(raw) {
		return 0, fmt.Errorf("%w: %q", constant.ErrInvalidPage, file)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", constant.ErrInvalidPage, file)
	}
	return n, nil
}

func isCanonicalPage(raw string) bool {
	if raw == "" || raw[0] == '0' {
		return false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return false
		}
	}
	return true
}

func (h *Handler) writeDocument(c *gin.Context, res *sitemap.Result) {
	doc := res.Document

	c.Header("Cache-Control", constant.SitemapCacheControl)
	c.Header(constant.HeaderRobotsTag, "noindex")
	c.Header(constant.HeaderSitemapURLs, strconv.Itoa(res.EntryCount))
	c.Header(constant.HeaderGenerationMs, strconv.FormatInt(res.Duration.Milliseconds(), 10))
	c.Header(constant.HeaderSitemapType, string(res.Type))
	c.Header(constant.HeaderSitemapSize, strconv.Itoa(doc.Stats.SizeBytes))

	switch res.Type {
	case sitemap.TypeIndex:
		c.Header(constant.HeaderSitemapCount, strconv.Itoa(res.TotalPages))
	case sitemap.TypePaginated:
		c.Header(constant.HeaderSitemapPage, strconv.Itoa(res.Page))
		c.Header(constant.HeaderTotalPages, strconv.Itoa(res.TotalPages))
	}

	c.Data(http.StatusOK, contentTypeXML, []byte(doc.XML))
}

// fail 把服务层错误转换为纯文本响应，非 200 永远带有原因
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, constant.ErrInvalidPage):
		status = http.StatusBadRequest
	case errors.Is(err, constant.ErrPageNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(c.Request.Context(), "sitemap generation failed", "path", c.Request.URL.Path, "error", err)
	}
	c.Data(status, contentTypePlain, []byte(err.Error()))
}
