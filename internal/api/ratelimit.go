package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

const (
	// limiterIdleTTL is how long a client's limiter is kept after its last request.
	limiterIdleTTL = 3 * time.Minute
	// maxClients forces a sweep when the table grows past it.
	maxClients = 10000
)

// RateLimitMiddleware allows rps requests per second per client IP, with a
// burst of the same size. rps <= 0 disables limiting.
func RateLimitMiddleware(rps int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiters := newClientLimiters(rps, limiterIdleTTL, clockwork.NewRealClock())
	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters hands out one limiter per IP and drops the ones that have
// been idle for longer than ttl.
type clientLimiters struct {
	rps   int
	ttl   time.Duration
	clock clockwork.Clock

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

func newClientLimiters(rps int, ttl time.Duration, clock clockwork.Clock) *clientLimiters {
	return &clientLimiters{
		rps:       rps,
		ttl:       ttl,
		clock:     clock,
		clients:   make(map[string]*clientLimiter),
		lastSweep: clock.Now(),
	}
}

func (l *clientLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if now.Sub(l.lastSweep) >= l.ttl || len(l.clients) >= maxClients {
		l.sweep(now)
	}

	c, ok := l.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(l.rps), l.rps)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

// sweep must be called with mu held.
func (l *clientLimiters) sweep(now time.Time) {
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.ttl {
			delete(l.clients, ip)
		}
	}
	l.lastSweep = now
}

func (l *clientLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
