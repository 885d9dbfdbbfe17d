/*
 * @Description: 联系表单服务
 * @Date: 2026-10-18 14:35:08
 */
package contact

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/calisto-ai/calisto-site/pkg/constant"
	"github.com/calisto-ai/calisto-site/pkg/domain/model"
)

// Service 联系表单服务
type Service interface {
	// Submit 检查、清洗并转发一次已通过绑定校验的提交
	Submit(ctx context.Context, form *model.ContactForm, client string) error
}

type service struct {
	notifier Notifier
	policy   *bluemonday.Policy
	logger   *slog.Logger
}

// NewService 创建联系表单服务
func NewService(notifier Notifier, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &service{
		notifier: notifier,
		policy:   bluemonday.StrictPolicy(),
		logger:   logger,
	}
}

func (s *service) Submit(ctx context.Context, form *model.ContactForm, client string) error {
	text := strings.Join([]string{form.Name, form.Email, form.Message, form.Company}, " ")
	if IsSuspicious(text) {
		s.logger.WarnContext(ctx, "suspicious contact submission rejected",
			"client", client, "email", MaskEmail(form.Email))
		return constant.ErrSuspiciousContent
	}

	clean := s.sanitize(form)
	if err := s.notifier.Notify(ctx, clean); err != nil {
		return fmt.Errorf("%w: %v", constant.ErrNotifyFailed, err)
	}

	s.logger.InfoContext(ctx, "contact form submitted",
		"name", clean.Name,
		"email", MaskEmail(clean.Email),
		"has_company", clean.Company != "",
		"message_length", len(clean.Message),
		"client", client,
	)
	return nil
}

// sanitize 去掉所有 HTML 并规范化空白，邮箱统一小写
func (s *service) sanitize(form *model.ContactForm) *model.ContactForm {
	strip := func(v string) string {
		return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
	}
	return &model.ContactForm{
		Name:       strip(form.Name),
		Email:      strings.ToLower(strings.TrimSpace(form.Email)),
		Phone:      strip(form.Phone),
		Company:    strip(form.Company),
		Message:    strip(form.Message),
		AcceptLGPD: form.AcceptLGPD,
	}
}

var emailMask = regexp.MustCompile(`^(.{2}).*(@.*)$`)

// MaskEmail 日志中只保留邮箱前两位和域名
func MaskEmail(email string) string {
	return emailMask.ReplaceAllString(email, "$1***$2")
}
