package rest

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// rateLimiter keeps one token bucket per client IP.
type rateLimiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

func newRateLimiter(perMinute, burst int) *rateLimiter {
	if burst <= 0 {
		burst = perMinute
	}

	return &rateLimiter{
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		idle:    10 * time.Minute,
		now:     time.Now,
		clients: map[string]*clientLimiter{},
	}
}

func (that *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !that.allow(clientIP(r)) {
			retryAfter := int(math.Ceil(1 / float64(that.limit)))
			if retryAfter < 1 {
				retryAfter = 1
			}

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (that *rateLimiter) allow(client string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()

	if now.Sub(that.lastSweep) > that.idle {
		that.sweep(now)
	}

	entry, ok := that.clients[client]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(that.limit, that.burst)}
		that.clients[client] = entry
	}
	entry.lastAccess = now

	return entry.limiter.AllowN(now, 1)
}

// sweep drops idle buckets; they have refilled, so nothing is lost.
func (that *rateLimiter) sweep(now time.Time) {
	for key, entry := range that.clients {
		if now.Sub(entry.lastAccess) > that.idle {
			delete(that.clients, key)
		}
	}
	that.lastSweep = now
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
