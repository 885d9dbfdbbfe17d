/*
 * @Description: 服务目录与联系表单模型
 * @Date: 2026-10-18 09:52:27
 */
package model

// ServiceCategory 服务分类
type ServiceCategory string

const (
	CategoryAutomation  ServiceCategory = "automation"
	CategoryDetection   ServiceCategory = "detection"
	CategoryIntegration ServiceCategory = "integration"
	CategoryMonitoring  ServiceCategory = "monitoring"
	CategorySupport     ServiceCategory = "support"
)

// CatalogService 服务目录中的一项，站点地图只需要 ID 构造 /servicos/{id}
type CatalogService struct {
	ID           string          `json:"id"           yaml:"id"`
	Title        string          `json:"title"        yaml:"title"`
	Subtitle     string          `json:"subtitle"     yaml:"subtitle"`
	Description  string          `json:"description"  yaml:"description"`
	Features     []string        `json:"features"     yaml:"features"`
	Benefits     []string        `json:"benefits"     yaml:"benefits"`
	Technologies []string        `json:"technologies" yaml:"technologies,omitempty"`
	Icon         string          `json:"icon"         yaml:"icon"`
	Category     ServiceCategory `json:"category"     yaml:"category"`
}

// ContactForm 联系表单提交内容
type ContactForm struct {
	Name       string `json:"name"       binding:"required,min=2,max=100"`
	Email      string `json:"email"      binding:"required,email,max=254"`
	Phone      string `json:"phone"      binding:"required,min=10,max=30,phone"`
	Company    string `json:"company"    binding:"omitempty,max=100"`
	Message    string `json:"message"    binding:"required,min=10,max=1000"`
	AcceptLGPD bool   `json:"acceptLgpd" binding:"lgpd"`
}
