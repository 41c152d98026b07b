package middleware

import (
	"net/http"
	"sync"
	"time"

	"org-directory/internal/logger"
	"org-directory/internal/metrics"
)

// 文档注释：令牌桶限流中间件（每秒）
// 背景：在流量峰值时对入口进行限速，避免数据库被过载；由 RATE_LIMIT_ENABLED / RATE_LIMIT_QPS 控制。
// 约束：简化实现，不做队列排队，仅丢弃并返回 429；桶在每个自然秒开始时重新装满。
type TokenBucket struct {
	capacity int
	tokens   int
	lastSec  int64
	now      func() int64
	mu       sync.Mutex
}

func NewTokenBucket(qps int) *TokenBucket {
	if qps <= 0 {
		qps = 1
	}
	now := func() int64 { return time.Now().Unix() }
	return &TokenBucket{capacity: qps, tokens: qps, lastSec: now(), now: now}
}

func (tb *TokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	nowSec := tb.now()
	if tb.lastSec != nowSec {
		tb.lastSec = nowSec
		tb.tokens = tb.capacity
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimit：enabled 为 false 时原样返回 next
func RateLimit(next http.Handler, enabled bool, qps int) http.Handler {
	if !enabled {
		return next
	}
	return Limit(next, NewTokenBucket(qps))
}

// Limit：使用给定令牌桶包装处理器
func Limit(next http.Handler, tb *TokenBucket) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !tb.allow() {
			metrics.RateLimitedTotal.Inc()
			logger.L().Debug("rate_limited", "path", r.URL.Path)
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
