package web

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withClock(l *RateLimiter, start time.Time) *time.Time {
	now := start
	l.now = func() time.Time { return now }
	return &now
}

func TestRateLimiter_PerClient(t *testing.T) {
	l := NewRateLimiter(3)
	withClock(l, time.Unix(1_700_000_000, 0))

	for i := range 3 {
		assert.True(t, l.Allow("10.0.0.1"), "request %d", i)
	}
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestRateLimiter_Refills(t *testing.T) {
	l := NewRateLimiter(60)
	now := withClock(l, time.Unix(1_700_000_000, 0))

	for range 60 {
		l.Allow("a")
	}
	assert.False(t, l.Allow("a"))

	*now = now.Add(time.Second)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
}

func TestRateLimiter_DefaultRate(t *testing.T) {
	l := NewRateLimiter(0)
	assert.Equal(t, DefaultRequestsPerMinute, l.perMin)
}

func TestRateLimiter_SetRate(t *testing.T) {
	l := NewRateLimiter(1)
	withClock(l, time.Unix(1_700_000_000, 0))

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	l.SetRate(5)
	assert.True(t, l.Allow("b"))
	assert.True(t, l.Allow("b"))
	assert.Equal(t, 5, l.clients["a"].limiter.Burst())
}

func TestRateLimiter_PrunesIdleClients(t *testing.T) {
	l := NewRateLimiter(10)
	now := withClock(l, time.Unix(1_700_000_000, 0))

	for i := range pruneThreshold + 1 {
		l.Allow(fmt.Sprintf("client-%d", i))
	}
	*now = now.Add(2 * time.Minute)
	l.Allow("fresh")

	assert.Len(t, l.clients, 1)
}

func TestRateLimiter_MiddlewareKeysByIP(t *testing.T) {
	l := NewRateLimiter(1)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("192.0.2.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, call("192.0.2.1:2000"))
	assert.Equal(t, http.StatusNoContent, call("192.0.2.2:1000"))
}
