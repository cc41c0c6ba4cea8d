package server

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Limit is a fixed-window request budget per client.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Limiter counts requests per client key in fixed windows.
type Limiter struct {
	limit Limit
	now   func() time.Time

	mu   sync.Mutex
	hits map[string]*window
}

type window struct {
	start time.Time
	count int
}

// sweepThreshold is the number of tracked clients above which expired
// windows are dropped.
const sweepThreshold = 4096

// NewLimiter returns a Limiter for l. A zero Requests disables limiting.
func NewLimiter(l Limit) *Limiter {
	return &Limiter{limit: l, now: time.Now, hits: make(map[string]*window)}
}

// Allow records a request for key and reports whether it fits the budget,
// the remaining budget and, when rejected, how long until the window resets.
func (l *Limiter) Allow(key string) (bool, int, time.Duration) {
	if l == nil || l.limit.Requests <= 0 {
		return true, 0, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.hits) > sweepThreshold {
		for k, w := range l.hits {
			if now.Sub(w.start) >= l.limit.Window {
				delete(l.hits, k)
			}
		}
	}
	w, ok := l.hits[key]
	if !ok || now.Sub(w.start) >= l.limit.Window {
		w = &window{start: now}
		l.hits[key] = w
	}
	if w.count >= l.limit.Requests {
		return false, 0, w.start.Add(l.limit.Window).Sub(now)
	}
	w.count++
	return true, l.limit.Requests - w.count, 0
}

// Middleware rejects requests over budget with 429 and message.
func (l *Limiter) Middleware(message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, remaining, retry := l.Allow(clientKey(r))
			if l != nil && l.limit.Requests > 0 {
				w.Header().Set("RateLimit-Limit", strconv.Itoa(l.limit.Requests))
				w.Header().Set("RateLimit-Remaining", strconv.Itoa(remaining))
			}
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(retry.Round(time.Second)/time.Second)))
				writeError(w, http.StatusTooManyRequests, message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey is the client IP. middleware.RealIP has already applied
// forwarding headers to RemoteAddr.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
