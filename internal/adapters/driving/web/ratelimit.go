package web

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRequestsPerMinute applies when a limiter is built with a
// non-positive rate.
const DefaultRequestsPerMinute = 60

// RateLimitMessage is the body of every 429 response.
const RateLimitMessage = "Rate limit exceeded. Please try again later."

// pruneThreshold is the client count above which idle clients are dropped.
const pruneThreshold = 1024

// RateLimiter throttles requests per client address. Each client gets a
// token bucket holding a minute's worth of requests.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	perMin  int
	now     func() time.Time
}

type client struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerMinute per client.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	return &RateLimiter{
		clients: make(map[string]*client),
		perMin:  requestsPerMinute,
		now:     time.Now,
	}
}

// SetRate changes the allowance for new and existing clients.
func (l *RateLimiter) SetRate(requestsPerMinute int) {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if requestsPerMinute == l.perMin {
		return
	}
	l.perMin = requestsPerMinute
	now := l.now()
	for _, c := range l.clients {
		c.limiter.SetLimitAt(now, l.limit())
		c.limiter.SetBurstAt(now, l.perMin)
	}
}

// Allow reports whether key may make another request now.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.clients) > pruneThreshold {
		l.prune(now)
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit(), l.perMin)}
		l.clients[key] = c
	}
	c.seen = now
	return c.limiter.AllowN(now, 1)
}

// prune drops clients idle for a full minute; their buckets are full
// again, so forgetting them changes nothing (caller must hold lock).
func (l *RateLimiter) prune(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.seen) >= time.Minute {
			delete(l.clients, key)
		}
	}
}

func (l *RateLimiter) limit() rate.Limit {
	return rate.Every(time.Minute / time.Duration(l.perMin))
}

// Middleware rejects over-limit requests with 429 and a JSON error.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientKey(r)) {
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: RateLimitMessage})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the caller by remote IP.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
