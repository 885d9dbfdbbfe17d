package sitemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calisto-ai/calisto-site/pkg/config"
	"github.com/calisto-ai/calisto-site/pkg/constant"
)

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name       string
		env        config.SiteEnv
		configured string
		want       string
		wantErr    error
	}{
		{
			name: "SITE_URL 优先",
			env:  config.SiteEnv{SiteURL: "https://example.com/", PublicSiteURL: "https://public.example.com", Mode: config.ModeProduction},
			want: "https://example.com",
		},
		{
			name: "PUBLIC_SITE_URL",
			env:  config.SiteEnv{PublicSiteURL: "https://public.example.com", Mode: config.ModeProduction},
			want: "https://public.example.com",
		},
		{
			name:       "配置文件 Site.URL",
			env:        config.SiteEnv{PlatformURL: "app.example.dev", Mode: config.ModeProduction},
			configured: "https://configured.example.com",
			want:       "https://configured.example.com",
		},
		{
			name: "平台 URL 补全 https",
			env:  config.SiteEnv{PlatformURL: "my-app.example.dev", Mode: config.ModeProduction},
			want: "https://my-app.example.dev",
		},
		{
			name: "开发环境兜底",
			env:  config.SiteEnv{Mode: config.ModeDevelopment},
			want: DevFallbackURL,
		},
		{
			name:    "生产环境不允许兜底",
			env:     config.SiteEnv{Mode: config.ModeProduction},
			wantErr: constant.ErrBaseURLUnresolved,
		},
		{
			name:    "非法协议",
			env:     config.SiteEnv{SiteURL: "ftp://example.com"},
			wantErr: constant.ErrBaseURLInvalid,
		},
		{
			name: "大小写与国际化域名",
			env:  config.SiteEnv{SiteURL: "HTTPS://Café.Example/"},
			want: "https://xn--caf-dma.example",
		},
		{
			name: "保留端口与路径",
			env:  config.SiteEnv{SiteURL: "http://localhost:8080/site/"},
			want: "http://localhost:8080/site",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBaseURL(tt.env, tt.configured)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, ValidateAbsoluteURL(got))
		})
	}
}
