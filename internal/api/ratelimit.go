package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// loginLimiter throttles login attempts per client address.
type loginLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	clients map[string]*limitedClient
}

type limitedClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newLoginLimiter allows burst attempts at once, refilled at one per every.
func newLoginLimiter(every time.Duration, burst int) *loginLimiter {
	return &loginLimiter{
		limit:   rate.Every(every),
		burst:   burst,
		ttl:     10 * time.Minute,
		now:     time.Now,
		clients: make(map[string]*limitedClient),
	}
}

func (l *loginLimiter) allow(addr string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > l.ttl {
			delete(l.clients, key)
		}
	}

	c, ok := l.clients[addr]
	if !ok {
		c = &limitedClient{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[addr] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// middleware answers 429 once a client exceeds its budget.
func (l *loginLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientAddr(r)) {
			w.Header().Set("Retry-After", "60")
			jsonError(w, http.StatusTooManyRequests, "too many login attempts, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
