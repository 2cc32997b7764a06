package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter rejects repeat submissions from the same IP inside a minimum
// interval. Stale entries are swept lazily so no background goroutine runs.
type RateLimiter struct {
	mu        sync.Mutex
	last      map[string]time.Time
	interval  time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{
		last:     map[string]time.Time{},
		interval: interval,
		now:      time.Now,
	}
}

// Allow records a hit for ip and reports whether it is inside the limit.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	if now.Sub(rl.lastSweep) > time.Minute {
		for k, ts := range rl.last {
			if now.Sub(ts) > time.Minute {
				delete(rl.last, k)
			}
		}
		rl.lastSweep = now
	}
	if last, ok := rl.last[ip]; ok && now.Sub(last) < rl.interval {
		return false
	}
	rl.last[ip] = now
	return true
}

// Wrap guards a handler with the limiter, answering 429 in French like the
// rest of the public API.
func (rl *RateLimiter) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Trop rapide, attends un peu."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
