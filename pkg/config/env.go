/*
 * @Description: 部署环境变量（平台注入的 URL、预览环境标识等）
 * @Date: 2026-10-18 09:31:52
 */
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	ModeProduction  = "production"
	ModeDevelopment = "development"
	ModeTest        = "test"
)

// SiteEnv 部署平台提供的环境变量
type SiteEnv struct {
	SiteURL          string `env:"SITE_URL"`
	PublicSiteURL    string `env:"PUBLIC_SITE_URL"`
	PlatformURL      string `env:"PLATFORM_URL"`
	PlatformEnv      string `env:"PLATFORM_ENV"`
	Mode             string `env:"APP_ENV" envDefault:"development"`
	DisallowIndex    string `env:"DISALLOW_INDEX"`
	AllowDevIndexing string `env:"ALLOW_DEV_INDEXING"`
}

// LoadSiteEnv 读取部署环境变量。envFile 存在时先用 godotenv 加载（不覆盖已有变量）。
func LoadSiteEnv(envFile string) (SiteEnv, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return SiteEnv{}, fmt.Errorf("load %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return SiteEnv{}, fmt.Errorf("stat %s: %w", envFile, err)
		}
	}

	var e SiteEnv
	if err := env.Parse(&e); err != nil {
		return SiteEnv{}, fmt.Errorf("parse site env: %w", err)
	}
	e.Mode = strings.ToLower(strings.TrimSpace(e.Mode))
	return e, nil
}

// IsProduction 是否运行在生产模式
func (e SiteEnv) IsProduction() bool {
	return e.Mode == ModeProduction
}

// IsPreview 是否为平台的预览部署
func (e SiteEnv) IsPreview() bool {
	return strings.EqualFold(e.PlatformEnv, "preview")
}

// ShouldDisallowIndex 预览、显式关闭或未放行的开发环境都应阻止索引，避免 staging 被收录
func (e SiteEnv) ShouldDisallowIndex() bool {
	if cast.ToBool(strings.TrimSpace(e.DisallowIndex)) {
		return true
	}
	if e.IsPreview() {
		return true
	}
	return e.Mode == ModeDevelopment && strings.TrimSpace(e.AllowDevIndexing) == ""
}
