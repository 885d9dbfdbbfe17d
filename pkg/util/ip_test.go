package util

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetRealClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"X-Forwarded-For 取第一个", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"非法值跳到下一个头部", map[string]string{"X-Forwarded-For": "unknown", "X-Real-IP": "198.51.100.2"}, "198.51.100.2"},
		{"Cloudflare", map[string]string{"CF-Connecting-IP": "2001:db8::1"}, "2001:db8::1"},
		{"带端口", map[string]string{"X-Real-IP": "198.51.100.9:4431"}, "198.51.100.9"},
		{"没有头部", nil, "192.0.2.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = "192.0.2.10:5555"
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetRealClientIP(c))
		})
	}
}

func TestParseIP(t *testing.T) {
	ip, ok := ParseIP(" [2001:db8::2]:443 ")
	assert.True(t, ok)
	assert.Equal(t, "2001:db8::2", ip)

	ip, ok = ParseIP("::ffff:192.0.2.1")
	assert.True(t, ok)
	assert.Equal(t, "192.0.2.1", ip)

	_, ok = ParseIP("not-an-ip")
	assert.False(t, ok)
}
