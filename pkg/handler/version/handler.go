/*
 * @Description: 版本与健康检查处理器
 * @Date: 2026-10-18 15:40:16
 */
package version

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calisto-ai/calisto-site/internal/pkg/version"
	"github.com/calisto-ai/calisto-site/pkg/response"
)

// Handler 版本信息处理器
type Handler struct {
	cacheType string
	baseURL   string
}

// NewHandler cacheType 和 baseURL 只用于健康检查输出
func NewHandler(cacheType, baseURL string) *Handler {
	return &Handler{cacheType: cacheType, baseURL: baseURL}
}

// GetVersion 获取版本信息
// @Summary      获取版本信息
// @Tags         辅助工具
// @Produce      json
// @Success      200  {object}  response.Response{data=version.BuildInfo}
// @Router       /api/version [get]
func (h *Handler) GetVersion(c *gin.Context) {
	response.Success(c, version.GetBuildInfo(), "ok")
}

// Health 存活检查，负载均衡和部署平台使用
// @Summary      健康检查
// @Tags         辅助工具
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.Response{
		Code:    http.StatusOK,
		Message: "ok",
		Data: gin.H{
			"status":   "up",
			"version":  version.GetVersion(),
			"cache":    h.cacheType,
			"base_url": h.baseURL,
		},
	})
}
