package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipRateLimiter 以客户端 IP 为键的令牌桶限流器。
// 只存在进程内状态，不做过期清理——单用户部署下键空间极小。
type ipRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newIPRateLimiter(perMinute int) *ipRateLimiter {
	return &ipRateLimiter{
		visitors: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (l *ipRateLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.visitors[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.visitors[key] = limiter
	}
	return limiter
}

// Middleware 返回 Gin 中间件，超出限额时响应 429
func (l *ipRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
			return
		}
		c.Next()
	}
}

// RateLimitStandard 常规接口限流：每 IP 每分钟 60 次
func RateLimitStandard() gin.HandlerFunc {
	return newIPRateLimiter(60).Middleware()
}

// RateLimitStrict 高成本接口（名言生成、PDF 导出）限流：每 IP 每分钟 10 次
func RateLimitStrict() gin.HandlerFunc {
	return newIPRateLimiter(10).Middleware()
}
