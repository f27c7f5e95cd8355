package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitSeparatesCallers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(Identity())
	r.POST("/upload", RateLimit(limiter, "upload", RateLimitRule{Rate: 1, Burst: 2}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req.RemoteAddr = remoteAddr
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("198.51.100.1:4000"); code != http.StatusOK {
			t.Fatalf("request %d expected 200, got %d", i+1, code)
		}
	}
	if code := send("198.51.100.1:4001"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for third request, got %d", code)
	}
	if code := send("198.51.100.2:4000"); code != http.StatusOK {
		t.Fatalf("other caller expected 200, got %d", code)
	}

	now = now.Add(time.Second)
	if code := send("198.51.100.1:4000"); code != http.StatusOK {
		t.Fatalf("expected refill after one second, got %d", code)
	}
}

func TestRateLimitIgnoresRotatingGuestIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(Identity())
	r.POST("/upload", RateLimit(limiter, "upload", RateLimitRule{Rate: 0.001, Burst: 1}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	accepted := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		req.Header.Set("X-Guest-Id", fmt.Sprintf("rotating-%d", i))
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code == http.StatusOK {
			accepted++
		}
	}
	if accepted != 1 {
		t.Fatalf("expected 1 accepted upload, got %d", accepted)
	}
	if got := limiter.Len(); got != 1 {
		t.Fatalf("expected a single bucket, got %d", got)
	}
}

func TestRateLimiterEvictsRefilledBuckets(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 2}

	for i := 0; i < 50; i++ {
		limiter.Allow(fmt.Sprintf("10.0.0.%d|upload", i), rule)
	}
	if got := limiter.Len(); got != 50 {
		t.Fatalf("expected 50 buckets, got %d", got)
	}

	now = now.Add(2 * time.Minute)
	limiter.Allow("10.0.1.1|upload", rule)
	if got := limiter.Len(); got != 1 {
		t.Fatalf("expected idle buckets to be evicted, got %d", got)
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "guest:test-guest")
		c.Next()
	})
	r.Use(RateLimit(limiter, "default", RateLimitRule{Rate: 1, Burst: 1}))
	r.GET("/api/v1/limited", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req1 := httptest.NewRequest(http.MethodGet, "/api/v1/limited", nil)
	resp1 := httptest.NewRecorder()
	r.ServeHTTP(resp1, req1)
	if resp1.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/limited", nil)
	resp2 := httptest.NewRecorder()
	r.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp2.Code)
	}
	if got := resp2.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("expected Retry-After 1, got %q", got)
	}

	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error.Code != "rate_limited" {
		t.Fatalf("expected code rate_limited, got %q", payload.Error.Code)
	}
	if _, ok := payload.Error.Details["retryAfterMs"]; !ok {
		t.Fatalf("expected retryAfterMs in details")
	}
}

func TestRateLimitDisabledRule(t *testing.T) {
	limiter := NewRateLimiter(nil)
	for i := 0; i < 10; i++ {
		if ok, _ := limiter.Allow("k", RateLimitRule{}); !ok {
			t.Fatalf("zero rule should never limit")
		}
	}
}
