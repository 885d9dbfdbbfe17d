/*
 * @Description: 站点地图领域模型
 * @Date: 2026-10-18 09:40:03
 */
package model

import (
	"errors"
	"time"
)

// ChangeFrequency 更新频率枚举
type ChangeFrequency string

const (
	ChangeFreqAlways  ChangeFrequency = "always"
	ChangeFreqHourly  ChangeFrequency = "hourly"
	ChangeFreqDaily   ChangeFrequency = "daily"
	ChangeFreqWeekly  ChangeFrequency = "weekly"
	ChangeFreqMonthly ChangeFrequency = "monthly"
	ChangeFreqYearly  ChangeFrequency = "yearly"
	ChangeFreqNever   ChangeFrequency = "never"
)

// IsValid 是否属于协议定义的取值
func (f ChangeFrequency) IsValid() bool {
	switch f {
	case ChangeFreqAlways, ChangeFreqHourly, ChangeFreqDaily, ChangeFreqWeekly,
		ChangeFreqMonthly, ChangeFreqYearly, ChangeFreqNever:
		return true
	}
	return false
}

// 子条目的必填字段约束
var (
	ErrIncompleteAlternate = errors.New("alternate requires both hreflang and href")
	ErrIncompleteImage     = errors.New("image requires a url")
	ErrIncompleteVideo     = errors.New("video requires url, title and thumbnail url")
)

// Alternate hreflang 本地化变体
type Alternate struct {
	Hreflang string `json:"hreflang"`
	Href     string `json:"href"`
}

func (a Alternate) Validate() error {
	if a.Hreflang == "" || a.Href == "" {
		return ErrIncompleteAlternate
	}
	return nil
}

// Image 图片扩展条目
type Image struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Caption string `json:"caption,omitempty"`
}

func (i Image) Validate() error {
	if i.URL == "" {
		return ErrIncompleteImage
	}
	return nil
}

// Video 视频扩展条目。视频 schema 强制要求 url、title、thumbnail，比图片严格。
type Video struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Description  string `json:"description,omitempty"`
}

func (v Video) Validate() error {
	if v.URL == "" || v.Title == "" || v.ThumbnailURL == "" {
		return ErrIncompleteVideo
	}
	return nil
}

// SiteURLEntry 一个可被发现的页面
type SiteURLEntry struct {
	URL             string          `json:"url"`
	LastModified    *time.Time      `json:"lastModified,omitempty"`
	ChangeFrequency ChangeFrequency `json:"changeFrequency,omitempty"`
	Priority        *float64        `json:"priority,omitempty"`
	Alternates      []Alternate     `json:"alternates,omitempty"`
	Images          []Image         `json:"images,omitempty"`
	Videos          []Video         `json:"videos,omitempty"`
}

// Priority 返回优先级指针，便于字面量构造条目
func Priority(p float64) *float64 {
	return &p
}

// Time 返回时间指针
func Time(t time.Time) *time.Time {
	return &t
}

// HasValidPriority 优先级是否存在且在 [0.0, 1.0]
func (e SiteURLEntry) HasValidPriority() bool {
	return e.Priority != nil && *e.Priority >= 0 && *e.Priority <= 1
}

// DocumentChunk 一个分页，Index 从 1 开始
type DocumentChunk struct {
	Index   int            `json:"index"`
	Entries []SiteURLEntry `json:"entries"`
}

// SitemapRef 索引文档中的一个 <sitemap> 引用
type SitemapRef struct {
	URL          string     `json:"url"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

// DocumentKind 文档形态
type DocumentKind string

const (
	KindURLSet       DocumentKind = "urlset"
	KindSitemapIndex DocumentKind = "sitemapindex"
	KindUnknown      DocumentKind = "unknown"
)

// ItemLabel 限制提示中使用的名称
func (k DocumentKind) ItemLabel() string {
	if k == KindSitemapIndex {
		return "Sitemaps"
	}
	return "URLs"
}

// ValidationStats 校验阶段附带的统计
type ValidationStats struct {
	ItemCount      int    `json:"itemCount"`
	SizeBytes      int    `json:"sizeBytes,omitempty"`
	SizeFormatted  string `json:"sizeFormatted,omitempty"`
	DuplicateCount int    `json:"duplicateCount,omitempty"`
}

// ValidationResult 任何校验阶段的输出。Errors 非空时该阶段的产物不可用，Warnings 只做记录。
type ValidationResult struct {
	Valid    bool            `json:"isValid"`
	Errors   []string        `json:"errors"`
	Warnings []string        `json:"warnings"`
	Stats    ValidationStats `json:"stats"`
}

// NewValidationResult 根据错误列表计算 Valid
func NewValidationResult(errs, warnings []string, stats ValidationStats) ValidationResult {
	if errs == nil {
		errs = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	return ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
		Stats:    stats,
	}
}

// Merge 合并另一阶段的结果，Valid 为两者的合取
func (r ValidationResult) Merge(other ValidationResult) ValidationResult {
	errs := append(append([]string{}, r.Errors...), other.Errors...)
	warnings := append(append([]string{}, r.Warnings...), other.Warnings...)

	stats := r.Stats
	if other.Stats.ItemCount != 0 {
		stats.ItemCount = other.Stats.ItemCount
	}
	if other.Stats.SizeBytes != 0 {
		stats.SizeBytes = other.Stats.SizeBytes
		stats.SizeFormatted = other.Stats.SizeFormatted
	}
	stats.DuplicateCount += other.Stats.DuplicateCount

	return NewValidationResult(errs, warnings, stats)
}

// XMLValidationResult 结构校验结果，附带检测到的文档类型
type XMLValidationResult struct {
	ValidationResult
	DocumentType DocumentKind `json:"documentType"`
}

// DocumentStats 生成文档的统计
type DocumentStats struct {
	SizeBytes     int    `json:"sizeBytes"`
	SizeFormatted string `json:"sizeFormatted"`
	EntryCount    int    `json:"entryCount"`
}

// GeneratedDocument 最终 XML 及其统计与校验结果
type GeneratedDocument struct {
	XML        string           `json:"xml"`
	Kind       DocumentKind     `json:"kind"`
	Stats      DocumentStats    `json:"stats"`
	Validation ValidationResult `json:"validation"`
}

// IsValid 文档是否可以对外提供
func (d *GeneratedDocument) IsValid() bool {
	return d != nil && d.Validation.Valid
}

// SitemapStats 条目分布统计，生成后写入日志
type SitemapStats struct {
	Total             int            `json:"total"`
	WithImages        int            `json:"withImages"`
	WithVideos        int            `json:"withVideos"`
	WithAlternates    int            `json:"withAlternates"`
	Priorities        map[string]int `json:"priorities"`
	ChangeFrequencies map[string]int `json:"changeFrequencies"`
}
