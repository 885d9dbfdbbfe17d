package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv 测试结束后恢复原值
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestNewConfigFrom_CreatesDefaultFile(t *testing.T) {
	unsetEnv(t, "CALISTO_SYSTEM_PORT", "CALISTO_SITE_URL")
	path := filepath.Join(t.TempDir(), "data", "conf.ini")

	cfg, err := NewConfigFrom(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	assert.Equal(t, 3010, cfg.GetInt(KeyServerPort))
	assert.Equal(t, "development", cfg.GetString(KeyServerMode))
	assert.Equal(t, "", cfg.GetString(KeySiteURL))
	assert.False(t, cfg.GetBool(KeySiteDisallowIndex))
	assert.Equal(t, 587, cfg.GetInt(KeyMailPort))
}

func TestNewConfigFrom_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.ini")
	require.NoError(t, os.WriteFile(path, []byte("[Site]\nURL = https://ini.example.com\n[Redis]\nAddr = localhost:6379\n"), 0o644))
	t.Setenv("CALISTO_SITE_URL", "https://env.example.com")

	cfg, err := NewConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.GetString(KeySiteURL))
	assert.Equal(t, "localhost:6379", cfg.GetString(KeyRedisAddr))
}

func TestNewConfigFrom_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.ini")
	require.NoError(t, os.WriteFile(path, []byte("[Site\nURL = x\n"), 0o644))

	_, err := NewConfigFrom(path)
	assert.Error(t, err)
}

func TestNewConfigFromMap(t *testing.T) {
	cfg := NewConfigFromMap(map[string]string{KeyServerPort: "8080", KeySiteDisallowIndex: "true"})
	assert.Equal(t, 8080, cfg.GetInt(KeyServerPort))
	assert.True(t, cfg.GetBool(KeySiteDisallowIndex))
}

func TestLoadSiteEnv_DotEnvDoesNotOverride(t *testing.T) {
	unsetEnv(t, "PLATFORM_ENV", "PUBLIC_SITE_URL")
	t.Setenv("SITE_URL", "https://real.example.com")
	t.Setenv("APP_ENV", " Production ")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SITE_URL=https://dotenv.example.com\nPLATFORM_ENV=preview\n"), 0o644))

	e, err := LoadSiteEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "https://real.example.com", e.SiteURL)
	assert.Equal(t, "preview", e.PlatformEnv)
	assert.True(t, e.IsProduction())
	assert.True(t, e.IsPreview())
}

func TestLoadSiteEnv_MissingFileIsIgnored(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	e, err := LoadSiteEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ModeTest, e.Mode)
}

func TestSiteEnv_ShouldDisallowIndex(t *testing.T) {
	tests := []struct {
		name string
		env  SiteEnv
		want bool
	}{
		{"生产环境", SiteEnv{Mode: ModeProduction}, false},
		{"显式关闭", SiteEnv{Mode: ModeProduction, DisallowIndex: "true"}, true},
		{"DISALLOW_INDEX=1", SiteEnv{Mode: ModeProduction, DisallowIndex: "1"}, true},
		{"预览部署", SiteEnv{Mode: ModeProduction, PlatformEnv: "Preview"}, true},
		{"开发环境默认阻止", SiteEnv{Mode: ModeDevelopment}, true},
		{"开发环境放行", SiteEnv{Mode: ModeDevelopment, AllowDevIndexing: "true"}, false},
		{"测试环境", SiteEnv{Mode: ModeTest}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.env.ShouldDisallowIndex())
		})
	}
}
