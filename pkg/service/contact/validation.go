/*
 * @Description: 联系表单的自定义校验规则
 * @Date: 2026-10-18 14:10:25
 */
package contact

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var nonDigit = regexp.MustCompile(`\D`)

// suspiciousPatterns 命中任意一条即拒绝提交
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)\[url\]`),
	regexp.MustCompile(`(?i)\[link\]`),
	regexp.MustCompile(`(?i)viagra|cialis|pharmacy`),
	regexp.MustCompile(`(?i)crypto|bitcoin|investment`),
}

// ValidPhone 去掉非数字后必须是 10 或 11 位（巴西固话或手机）
func ValidPhone(phone string) bool {
	n := len(nonDigit.ReplaceAllString(phone, ""))
	return n >= 10 && n <= 11
}

// IsSuspicious 检查文本是否包含脚本注入或垃圾信息特征
func IsSuspicious(text string) bool {
	for _, p := range suspiciousPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// RegisterValidators 在 validator 上注册 phone 和 lgpd 规则
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register phone validator: %w", err)
	}
	if err := v.RegisterValidation("lgpd", func(fl validator.FieldLevel) bool {
		return fl.Field().Bool()
	}); err != nil {
		return fmt.Errorf("register lgpd validator: %w", err)
	}
	return nil
}

// RegisterBindingValidators 把自定义规则注册到 gin 的默认校验引擎
func RegisterBindingValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return RegisterValidators(v)
}

// fieldMessages 每个字段每条规则对应的提示
var fieldMessages = map[string]map[string]string{
	"name": {
		"required": "Nome é obrigatório",
		"min":      "Nome deve ter pelo menos 2 caracteres",
		"max":      "Nome muito longo",
	},
	"email": {
		"required": "Email é obrigatório",
		"email":    "Email inválido",
		"max":      "Email muito longo",
	},
	"phone": {
		"required": "Telefone é obrigatório",
		"min":      "Telefone deve ter pelo menos 10 dígitos",
		"max":      "Telefone muito longo",
		"phone":    "Formato de telefone inválido",
	},
	"company": {
		"max": "Nome da empresa muito longo",
	},
	"message": {
		"required": "Mensagem é obrigatória",
		"min":      "Mensagem deve ter pelo menos 10 caracteres",
		"max":      "Mensagem muito longa",
	},
	"acceptLgpd": {
		"lgpd": "Você deve aceitar os termos da LGPD",
	},
}

// FieldError 返回给前端的字段级错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DescribeValidationErrors 把 validator 的错误转换为字段级提示
func DescribeValidationErrors(errs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, fe := range errs {
		field := jsonFieldName(fe.Field())
		msg, ok := fieldMessages[field][fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("Valor inválido (%s)", fe.Tag())
		}
		out = append(out, FieldError{Field: field, Message: msg})
	}
	return out
}

// jsonFieldName 结构体字段名转换为 JSON 字段名
func jsonFieldName(structField string) string {
	if structField == "AcceptLGPD" {
		return "acceptLgpd"
	}
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}
