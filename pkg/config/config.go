/*
 * @Description: 统一配置管理 (ini 文件 + 环境变量覆盖)
 * @Date: 2026-10-18 09:20:11
 */
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"
)

// DefaultConfigFile 默认配置文件位置
const DefaultConfigFile = "data/conf.ini"

// 定义所有已知的配置键
var allKeys = []string{
	KeyServerPort, KeyServerDebug, KeyServerMode,
	KeySiteURL, KeySiteDisallowIndex, KeyCatalogFile,
	KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
	KeyMailHost, KeyMailPort, KeyMailUser, KeyMailPassword, KeyMailFrom, KeyMailTo,
	KeyLogFile,
}

const (
	KeyServerPort        = "System.Port"
	KeyServerDebug       = "System.Debug"
	KeyServerMode        = "System.Mode"
	KeySiteURL           = "Site.URL"
	KeySiteDisallowIndex = "Site.DisallowIndex"
	KeyCatalogFile       = "Catalog.File"
	KeyRedisAddr         = "Redis.Addr"
	KeyRedisPassword     = "Redis.Password"
	KeyRedisDB           = "Redis.DB"
	KeyMailHost          = "Mail.Host"
	KeyMailPort          = "Mail.Port"
	KeyMailUser          = "Mail.User"
	KeyMailPassword      = "Mail.Password"
	KeyMailFrom          = "Mail.From"
	KeyMailTo            = "Mail.To"
	KeyLogFile           = "Log.File"
)

const envPrefix = "CALISTO"

type Config struct {
	vp *viper.Viper
}

// NewConfig 从默认位置加载配置
func NewConfig() (*Config, error) {
	return NewConfigFrom(DefaultConfigFile)
}

// NewConfigFrom 手动加载配置：先读 ini 文件作为默认值，再用环境变量覆盖
func NewConfigFrom(filePath string) (*Config, error) {
	vp := viper.New()

	// --- 步骤 1: 使用 go-ini 从文件加载配置 (作为默认值) ---
	iniCfg, err := ini.Load(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("config: %s not found, creating a default one", filePath)
			if err := createDefaultConfigFile(filePath); err != nil {
				log.Printf("config: failed to create default config file: %v, falling back to env and built-in defaults", err)
			} else {
				iniCfg, err = ini.Load(filePath)
				if err != nil {
					log.Printf("config: failed to reload %s: %v", filePath, err)
				}
			}
		} else {
			// 文件存在但格式错误
			return nil, fmt.Errorf("parse config file %q: %w", filePath, err)
		}
	}

	if iniCfg != nil {
		for _, section := range iniCfg.Sections() {
			for _, key := range section.Keys() {
				// 构建 Viper 使用的 key，例如 "Site.URL"
				viperKey := fmt.Sprintf("%s.%s", section.Name(), key.Name())
				if section.Name() == ini.DefaultSection {
					viperKey = key.Name()
				}
				vp.Set(viperKey, key.Value())
			}
		}
		log.Printf("config: loaded defaults from %s", filePath)
	}

	// --- 步骤 2: 手动检查并覆盖环境变量，例如 CALISTO_SITE_URL ---
	envReplacer := strings.NewReplacer(".", "_")
	for _, key := range allKeys {
		envVarName := fmt.Sprintf("%s_%s", envPrefix, envReplacer.Replace(strings.ToUpper(key)))
		if value, found := os.LookupEnv(envVarName); found {
			vp.Set(key, value)
			log.Printf("config: %s overrides '%s'", envVarName, key)
		}
	}

	return &Config{vp: vp}, nil
}

// NewConfigFromMap 直接用键值构造配置，测试和嵌入场景使用
func NewConfigFromMap(values map[string]string) *Config {
	vp := viper.New()
	for k, v := range values {
		vp.Set(k, v)
	}
	return &Config{vp: vp}
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

// createDefaultConfigFile 创建默认的配置文件
func createDefaultConfigFile(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	defaultConfig := `[System]
Port = 3010
Debug = false
Mode = development

[Site]
# 站点的规范 URL，生产环境必须配置（也可以用 SITE_URL 环境变量）
URL =
DisallowIndex = false

[Catalog]
# 服务目录 YAML 文件，留空使用内置目录
File =

# Redis 配置（可选）
# 如果不配置或留空 Addr，系统将自动使用内存缓存
[Redis]
Addr =
Password =
DB = 0

[Mail]
Host =
Port = 587
User =
Password =
From =
To =

[Log]
File =
`

	if err := os.WriteFile(filePath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}
