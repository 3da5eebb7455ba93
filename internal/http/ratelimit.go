package http

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// rateLimiter keeps one token bucket per client IP. Idle clients expire from
// the registry after idleTTL.
type rateLimiter struct {
	clients *gocache.Cache
	limit   rate.Limit
	burst   int
	hits    int64
}

const idleTTL = 10 * time.Minute

func newRateLimiter(perMinute, burst int) *rateLimiter {
	return &rateLimiter{
		clients: gocache.New(idleTTL, 5*time.Minute),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   burst,
	}
}

func (rl *rateLimiter) limiter(clientIP string) *rate.Limiter {
	if v, ok := rl.clients.Get(clientIP); ok {
		l := v.(*rate.Limiter)
		rl.clients.Set(clientIP, l, gocache.DefaultExpiration)
		return l
	}
	l := rate.NewLimiter(rl.limit, rl.burst)
	// Add fails if another request created the limiter first.
	if err := rl.clients.Add(clientIP, l, gocache.DefaultExpiration); err != nil {
		if v, ok := rl.clients.Get(clientIP); ok {
			return v.(*rate.Limiter)
		}
	}
	return l
}

// allow reports whether a request from clientIP may proceed.
func (rl *rateLimiter) allow(clientIP string) bool {
	if rl.limiter(clientIP).Allow() {
		return true
	}
	atomic.AddInt64(&rl.hits, 1)
	return false
}

func (rl *rateLimiter) activeClients() int {
	return rl.clients.ItemCount()
}

func (rl *rateLimiter) totalHits() int64 {
	return atomic.LoadInt64(&rl.hits)
}
