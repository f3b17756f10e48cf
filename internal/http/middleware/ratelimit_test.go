package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func get(r *gin.Engine, remote string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remote
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsBurstThenRejects(t *testing.T) {
	rl := NewRateLimiter(0, 2, KeyByClientIP()) // rps 0: bucket never refills
	r := newLimitedRouter(rl)

	for i := 0; i < 2; i++ {
		if w := get(r, "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d -> %d", i, w.Code)
		}
	}

	w := get(r, "10.0.0.1:1234")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("over burst -> %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "1" {
		t.Fatalf("Retry-After = %q", w.Header().Get("Retry-After"))
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(0, 1, KeyByClientIP())
	r := newLimitedRouter(rl)

	if w := get(r, "10.0.0.1:1"); w.Code != http.StatusOK {
		t.Fatalf("first ip -> %d", w.Code)
	}
	if w := get(r, "10.0.0.1:1"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("first ip repeat -> %d", w.Code)
	}
	// A different client still has a full bucket.
	if w := get(r, "10.0.0.2:1"); w.Code != http.StatusOK {
		t.Fatalf("second ip -> %d", w.Code)
	}
}

func TestRateLimiter_CoercesBurst(t *testing.T) {
	rl := NewRateLimiter(1, 0, KeyByClientIP())
	if rl.burst != 1 {
		t.Fatalf("burst = %d; want coerced to 1", rl.burst)
	}
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1, KeyByClientIP())
	rl.ttl = time.Millisecond

	rl.getVisitor("ip:stale")
	time.Sleep(5 * time.Millisecond)

	// Force the periodic sweep on the next lookup.
	rl.mu.Lock()
	rl.cleanupN = 4999
	rl.mu.Unlock()
	rl.getVisitor("ip:fresh")

	rl.mu.Lock()
	_, stale := rl.visitors["ip:stale"]
	_, fresh := rl.visitors["ip:fresh"]
	rl.mu.Unlock()
	if stale {
		t.Fatalf("stale visitor not evicted")
	}
	if !fresh {
		t.Fatalf("fresh visitor missing")
	}
}
