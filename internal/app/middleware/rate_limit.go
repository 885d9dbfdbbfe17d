/*
 * @Description: 频率限制中间件
 * @Date: 2026-10-18 14:52:36
 */
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/calisto-ai/calisto-site/internal/pkg/strutil"
	"github.com/calisto-ai/calisto-site/pkg/response"
	"github.com/calisto-ai/calisto-site/pkg/util"
)

// 联系表单：每个客户端 15 分钟内最多 5 次
const (
	ContactRateLimitMax    = 5
	ContactRateLimitWindow = 15 * time.Minute
)

// clientRateLimiter 按客户端保存令牌桶
type clientRateLimiter struct {
	limiters map[string]*limiterInfo
	mu       sync.Mutex
	// 窗口内允许的请求数，同时也是桶容量
	max    int
	window time.Duration
	now    func() time.Time
}

// limiterInfo 存储限流器及其最后访问时间
type limiterInfo struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

func newClientRateLimiter(limit int, window time.Duration) *clientRateLimiter {
	return &clientRateLimiter{
		limiters: make(map[string]*limiterInfo),
		max:      limit,
		window:   window,
		now:      time.Now,
	}
}

// quota 一次请求后的限流状态
type quota struct {
	allowed   bool
	remaining int
	reset     time.Time
}

// take 消耗一个令牌并返回剩余额度；reset 是令牌桶重新装满的时间
func (l *clientRateLimiter) take(key string) quota {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	info, ok := l.limiters[key]
	if !ok {
		info = &limiterInfo{
			limiter: rate.NewLimiter(rate.Every(l.window/time.Duration(l.max)), l.max),
		}
		l.limiters[key] = info
	}
	info.lastAccessed = now

	allowed := info.limiter.AllowN(now, 1)
	tokens := info.limiter.TokensAt(now)
	missing := float64(l.max) - tokens
	refill := time.Duration(missing * float64(l.window) / float64(l.max))

	return quota{
		allowed:   allowed,
		remaining: max(0, int(math.Floor(tokens))),
		reset:     now.Add(refill),
	}
}

// cleanup 删除一个窗口内没有访问过的客户端
func (l *clientRateLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for key, info := range l.limiters {
		if now.Sub(info.lastAccessed) > l.window {
			delete(l.limiters, key)
		}
	}
}

func (l *clientRateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		l.cleanup()
	}
}

// RateLimit 按客户端（IP + User-Agent 前 50 个字符）限流，超出时返回 429
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	limiter := newClientRateLimiter(limit, window)
	go limiter.cleanupLoop(5 * time.Minute)
	return rateLimitHandler(limiter)
}

// ContactRateLimit 联系表单的频率限制
func ContactRateLimit() gin.HandlerFunc {
	return RateLimit(ContactRateLimitMax, ContactRateLimitWindow)
}

func rateLimitHandler(limiter *clientRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := limiter.take(clientKey(c))

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(q.remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(q.reset.Unix(), 10))

		if !q.allowed {
			retryAfter := int(math.Ceil(limiter.window.Seconds() / float64(limiter.max)))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.FailWithData(c, http.StatusTooManyRequests,
				"Muitas tentativas. Tente novamente em alguns minutos.",
				gin.H{"retryAfter": retryAfter})
			c.Abort()
			return
		}
		c.Next()
	}
}

// clientKey 同一出口 IP 下的不同浏览器分别计数
func clientKey(c *gin.Context) string {
	ua := c.GetHeader("User-Agent")
	if ua == "" {
		ua = "unknown"
	}
	return getClientIP(c) + "-" + strutil.Truncate(ua, 50)
}

// getClientIP 获取客户端真实IP地址
func getClientIP(c *gin.Context) string {
	return util.GetRealClientIP(c)
}
