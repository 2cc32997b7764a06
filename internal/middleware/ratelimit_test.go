package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(800 * time.Millisecond)
	now := time.Now()
	rl.now = func() time.Time { return now }

	if !rl.Allow("1.2.3.4") {
		t.Fatal("first hit should pass")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("immediate repeat should be blocked")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatal("other ip should pass")
	}

	now = now.Add(801 * time.Millisecond)
	if !rl.Allow("1.2.3.4") {
		t.Fatal("hit after the interval should pass")
	}
}

func TestRateLimiterSweepsStaleEntries(t *testing.T) {
	rl := NewRateLimiter(800 * time.Millisecond)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("1.2.3.4")
	now = now.Add(2 * time.Minute)
	rl.Allow("5.6.7.8")

	rl.mu.Lock()
	_, stale := rl.last["1.2.3.4"]
	rl.mu.Unlock()
	if stale {
		t.Fatal("stale entry should have been swept")
	}
}

func TestRateLimiterWrap(t *testing.T) {
	rl := NewRateLimiter(800 * time.Millisecond)
	h := rl.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/answers", nil)
	req.RemoteAddr = "9.9.9.9:1234"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("repeat request = %d, want 429", rec.Code)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if got := clientIP(req); got != "10.0.0.1" {
		t.Fatalf("got %q, want 10.0.0.1", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.7" {
		t.Fatalf("got %q, want 203.0.113.7", got)
	}
}
