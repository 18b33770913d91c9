package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("X-Request-ID not set")
	}
}

func TestRequestID_PropagatesIncoming(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	r.ServeHTTP(w, req)

	if rid := w.Header().Get("X-Request-ID"); rid != "fixed-id" {
		t.Fatalf("X-Request-ID = %q, want fixed-id", rid)
	}
}

func TestRecovery_ReturnsEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Silence the panic log for the duration of the test.
	old := log.Logger
	log.Logger = zerolog.New(&bytes.Buffer{})
	defer func() { log.Logger = old }()

	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if body["success"] != false || body["error"] == "" {
		t.Fatalf("body = %v", body)
	}
}

func TestLogger_EmitsAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	old := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = old }()

	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/ping", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("inside handler")
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping?x=1", nil))

	out := buf.String()
	if !strings.Contains(out, `"path":"/ping"`) || !strings.Contains(out, `"status":200`) {
		t.Fatalf("access log missing fields:\n%s", out)
	}
	if !strings.Contains(out, "inside handler") {
		t.Fatalf("request-scoped logger not attached:\n%s", out)
	}
}
