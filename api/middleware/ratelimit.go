package middleware

import (
	"sync"
	"sync/atomic"
	"time"

	"storefront/api/response"
	"storefront/config"
	"storefront/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// clientIdleTTL 超过这么久没来的客户端，令牌桶会被回收
const clientIdleTTL = 10 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimiter 按客户端 IP 分桶的令牌桶
type RateLimiter struct {
	clients   sync.Map // ip -> *client
	limit     rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	lastSweep atomic.Int64
}

// NewRateLimiter r 每秒补充的令牌数，burst 桶容量
func NewRateLimiter(r float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		limit: rate.Limit(r),
		burst: burst,
		idle:  clientIdleTTL,
		now:   time.Now,
	}
	rl.lastSweep.Store(rl.now().UnixNano())
	return rl
}

// Allow 消耗 ip 的一个令牌
func (rl *RateLimiter) Allow(ip string) bool {
	now := rl.now()
	v, _ := rl.clients.LoadOrStore(ip, &client{limiter: rate.NewLimiter(rl.limit, rl.burst)})
	cl := v.(*client)
	cl.lastSeen.Store(now.UnixNano())
	rl.maybeSweep(now)
	return cl.limiter.AllowN(now, 1)
}

// Len 当前跟踪的客户端数
func (rl *RateLimiter) Len() int {
	n := 0
	rl.clients.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// maybeSweep 每个 idle 周期至多一个请求负责清理
func (rl *RateLimiter) maybeSweep(now time.Time) {
	last := rl.lastSweep.Load()
	if now.UnixNano()-last < int64(rl.idle) || !rl.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-rl.idle).UnixNano()
	rl.clients.Range(func(key, value interface{}) bool {
		if value.(*client).lastSeen.Load() < cutoff {
			rl.clients.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware 超限返回 429 TOO_MANY_REQUESTS
func RateLimitMiddleware(cfg *config.RateLimitConfig, log *zap.Logger) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	if log == nil {
		log = zap.NewNop()
	}
	limiter := NewRateLimiter(cfg.Rate, cfg.Burst)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.Allow(ip) {
			log.Warn("Rate limit exceeded",
				zap.String("request_id", response.GetRequestID(c)),
				zap.String("client_ip", ip))
			response.Abort(c, errors.TooManyRequests("too many requests, please try again later"))
			return
		}
		c.Next()
	}
}
