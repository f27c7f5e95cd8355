package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIdentityGuestHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var got string
	r := gin.New()
	r.Use(Identity())
	r.GET("/", func(c *gin.Context) {
		got = UserIDFromContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Guest-Id", "abc")
	r.ServeHTTP(httptest.NewRecorder(), req)
	if got != "guest:abc" {
		t.Fatalf("expected guest:abc, got %q", got)
	}
}

func TestIdentityFallsBackToClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var got string
	r := gin.New()
	r.Use(Identity())
	r.GET("/", func(c *gin.Context) {
		got = UserIDFromContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Guest-Id", strings.Repeat("x", 100))
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(httptest.NewRecorder(), req)
	if !strings.HasPrefix(got, "anon:") || len(got) != len("anon:")+16 {
		t.Fatalf("unexpected anonymous id %q", got)
	}

	var again string
	r2 := gin.New()
	r2.Use(Identity())
	r2.GET("/", func(c *gin.Context) {
		again = UserIDFromContext(c)
		c.Status(http.StatusOK)
	})
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.RemoteAddr = "10.0.0.1:9999"
	r2.ServeHTTP(httptest.NewRecorder(), req2)
	if again != got {
		t.Fatalf("expected stable id for same ip, got %q and %q", got, again)
	}
}
