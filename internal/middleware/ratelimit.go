package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiter tracks one client's token bucket and its last use, so idle
// entries can be evicted.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client-IP token bucket to protect the service
// from request floods. Buckets idle for longer than the cleanup window are
// discarded.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	rps      rate.Limit
	burst    int
	maxIdle  time.Duration
	lastScan time.Time
}

// NewRateLimiter creates a rate limiter allowing rps requests per second
// with the given burst per client IP.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(rps),
		burst:   burst,
		maxIdle: 3 * time.Minute,
	}
}

// Middleware returns the gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":          "Too many requests",
				"correlation_id": c.GetString("correlation_id"),
			})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.evictIdleLocked(now)

	client, ok := rl.clients[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[ip] = client
	}
	client.lastSeen = now

	return client.limiter.Allow()
}

// evictIdleLocked drops buckets unused past maxIdle. It scans at most once
// per minute; callers hold the mutex.
func (rl *RateLimiter) evictIdleLocked(now time.Time) {
	if now.Sub(rl.lastScan) < time.Minute {
		return
	}
	rl.lastScan = now

	for ip, client := range rl.clients {
		if now.Sub(client.lastSeen) > rl.maxIdle {
			delete(rl.clients, ip)
		}
	}
}
