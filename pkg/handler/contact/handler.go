/*
 * @Description: 联系表单处理器
 * @Date: 2026-10-18 15:14:33
 */
package contact

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/calisto-ai/calisto-site/pkg/constant"
	"github.com/calisto-ai/calisto-site/pkg/domain/model"
	"github.com/calisto-ai/calisto-site/pkg/response"
	"github.com/calisto-ai/calisto-site/pkg/service/contact"
	"github.com/calisto-ai/calisto-site/pkg/util"
)

// Handler 联系表单处理器
type Handler struct {
	contactService contact.Service
	logger         *slog.Logger
}

// NewHandler 创建联系表单处理器
func NewHandler(contactService contact.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{contactService: contactService, logger: logger}
}

// Submit 提交联系表单
// @Summary      提交联系表单
// @Tags         联系
// @Accept       json
// @Produce      json
// @Param        body  body      model.ContactForm  true  "表单内容"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response  "字段校验失败或内容可疑"
// @Failure      429   {object}  response.Response  "提交过于频繁"
// @Failure      500   {object}  response.Response  "邮件发送失败"
// @Router       /api/contact [post]
func (h *Handler) Submit(c *gin.Context) {
	var form model.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.FailWithData(c, http.StatusBadRequest, "Dados inválidos", contact.DescribeValidationErrors(verrs))
			return
		}
		response.Fail(c, http.StatusBadRequest, "Dados inválidos")
		return
	}

	err := h.contactService.Submit(c.Request.Context(), &form, util.GetRealClientIP(c))
	switch {
	case err == nil:
		response.Success(c, gin.H{"success": true}, "Mensagem enviada com sucesso! Entraremos em contato em breve.")
	case errors.Is(err, constant.ErrSuspiciousContent):
		response.Fail(c, http.StatusBadRequest, "Conteúdo suspeito detectado. Entre em contato diretamente conosco.")
	case errors.Is(err, constant.ErrNotifyFailed):
		h.logger.ErrorContext(c.Request.Context(), "contact notification failed", "error", err)
		response.Fail(c, http.StatusInternalServerError, "Erro ao enviar mensagem. Tente novamente ou entre em contato diretamente conosco.")
	default:
		h.logger.ErrorContext(c.Request.Context(), "contact submission failed", "error", err)
		response.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente mais tarde.")
	}
}

// MethodNotAllowed 联系接口只接受 POST
func (h *Handler) MethodNotAllowed(c *gin.Context) {
	c.Header("Allow", http.MethodPost)
	response.Fail(c, http.StatusMethodNotAllowed, "Método não permitido")
}
