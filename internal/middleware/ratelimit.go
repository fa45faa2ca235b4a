package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type keyLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

type rateLimiter struct {
	mu    sync.Mutex
	byKey map[string]*keyLimiter
	limit rate.Limit
	burst int
	ttl   time.Duration
}

func (rl *rateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	kl, ok := rl.byKey[key]
	if ok {
		kl.seen = time.Now()
		return kl.lim
	}
	lim := rate.NewLimiter(rl.limit, rl.burst)
	rl.byKey[key] = &keyLimiter{lim: lim, seen: time.Now()}
	return lim
}

func (rl *rateLimiter) gc() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		rl.mu.Lock()
		for k, v := range rl.byKey {
			if now.Sub(v.seen) > rl.ttl {
				delete(rl.byKey, k)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit applies a per-client-IP token bucket across the whole API.
func RateLimit(perSecond float64, burst int) gin.HandlerFunc {
	rl := &rateLimiter{
		byKey: make(map[string]*keyLimiter),
		limit: rate.Limit(perSecond),
		burst: burst,
		ttl:   2 * time.Minute,
	}
	go rl.gc()
	return func(c *gin.Context) {
		if !rl.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": body429(c)})
			return
		}
		c.Next()
	}
}

func body429(c *gin.Context) gin.H {
	return gin.H{
		"code":    "RATE_LIMITED",
		"message": "Too many requests",
		"path":    c.Request.URL.Path,
	}
}
