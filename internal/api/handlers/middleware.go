package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/langchou/autoprime/internal/models"
	"github.com/langchou/autoprime/pkg/metrics"
)

// RequestLogger 请求日志
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("Request failed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("Request rejected", fields...)
		default:
			logger.Debug("Request served", fields...)
		}
	}
}

// Metrics 记录请求指标，未匹配路由按页面路径归类
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "page"
		}
		metrics.RecordHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// CORS /api 跨域配置，未配置来源时不启用
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// limiterIdle 超过该时长未出现的 IP 会被清理
const limiterIdle = 10 * time.Minute

// ipLimiters 按客户端 IP 分配的令牌桶
type ipLimiters struct {
	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

type ipLimiter struct {
	*rate.Limiter
	seen time.Time
}

func newIPLimiters(perMinute int) *ipLimiters {
	burst := perMinute / 6
	if burst < 1 {
		burst = 1
	}
	return &ipLimiters{
		limiters:  make(map[string]*ipLimiter),
		limit:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterIdle {
		l.sweep(now)
	}

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiter{Limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.seen = now
	return entry.Limiter
}

// sweep 删除空闲的令牌桶，调用方持有锁
func (l *ipLimiters) sweep(now time.Time) {
	for ip, entry := range l.limiters {
		if now.Sub(entry.seen) >= limiterIdle {
			delete(l.limiters, ip)
		}
	}
	l.lastSweep = now
}

func (l *ipLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// RateLimit 表单提交限流，perMinute <= 0 时不限流
func (h *Handler) RateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiters := newIPLimiters(perMinute)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if limiters.get(ip).Allow() {
			c.Next()
			return
		}

		h.logger.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
		h.sessions.PushFlash(c.Request.Context(), models.NoticeWarning, "Too many requests. Please wait a moment and try again.")
		c.Redirect(http.StatusSeeOther, refererOr(c, "/"))
		c.Abort()
	}
}

func refererOr(c *gin.Context, fallback string) string {
	if ref := refererPath(c); ref != "" {
		return ref
	}
	return fallback
}
