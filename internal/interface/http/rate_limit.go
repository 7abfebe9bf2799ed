package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/run-reporter/internal/infra/config"
)

const idleBucketTTL = 5 * time.Minute

func rateLimitMiddleware(cfg config.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newIPRateLimiter(cfg)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		wait, ok := limiter.allow(ip)
		if ok {
			c.Next()
			return
		}
		logger.Warn("rate limit exceeded", "ip", ip, "path", c.Request.URL.Path)
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		abortWithError(c, NewHTTPError(http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests", nil))
	}
}

// bucket holds the tokens left for one client and when they were last topped up.
type bucket struct {
	tokens  float64
	updated time.Time
}

// ipRateLimiter is a token bucket per client IP. Buckets idle for longer than
// idleBucketTTL are forgotten.
type ipRateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	perSec   float64
	capacity float64
	now      func() time.Time
}

func newIPRateLimiter(cfg config.RateLimitConfig) *ipRateLimiter {
	return &ipRateLimiter{
		buckets:  make(map[string]*bucket),
		perSec:   float64(cfg.RequestsPerMinute) / 60,
		capacity: float64(cfg.Burst),
		now:      time.Now,
	}
}

// allow spends one token for ip. When none is left it reports how long until the next one.
func (l *ipRateLimiter) allow(ip string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictIdle(now)

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{tokens: l.capacity, updated: now}
		l.buckets[ip] = b
	}
	if elapsed := now.Sub(b.updated).Seconds(); elapsed > 0 {
		b.tokens = math.Min(l.capacity, b.tokens+elapsed*l.perSec)
	}
	b.updated = now

	if b.tokens >= 1 {
		b.tokens--
		return 0, true
	}
	deficit := 1 - b.tokens
	return time.Duration(deficit / l.perSec * float64(time.Second)), false
}

func (l *ipRateLimiter) evictIdle(now time.Time) {
	for ip, b := range l.buckets {
		if now.Sub(b.updated) > idleBucketTTL {
			delete(l.buckets, ip)
		}
	}
}
