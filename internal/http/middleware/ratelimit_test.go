package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func limitedRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rl := NewRateLimiter(rps, burst, KeyByIP())
	r.Use(rl.Handler())
	r.POST("/api/contact", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	r := limitedRouter(0, 3) // no refill, burst of 3

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/contact", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, w.Code)
		}
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	r := limitedRouter(0, 1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/contact", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first request: status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/contact", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("Retry-After not set")
	}
}

func TestRateLimiter_CoercesBurst(t *testing.T) {
	rl := NewRateLimiter(1, 0, KeyByIP())
	if rl.burst != 1 {
		t.Fatalf("burst = %d, want 1", rl.burst)
	}
}
