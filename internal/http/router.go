// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, and rate limiting.
//
// Two surfaces hang off one engine:
//   - /api/*       the public form endpoints the website talks to
//   - /hooks/crm/* the CRM webhook the edge relay forwards to
//
// CORS approval is granted on everything except the unsubscribe HTML pages,
// which are same-origin form posts and intentionally carry no CORS headers.
// A disallowed origin is never rejected server-side; it just receives no
// Access-Control-Allow-Origin header. The
// CRM surface is server-to-server; requests there carry no Origin header, so
// the CORS layer is a no-op for them.
package httpapi

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/studiox/forms-backend/internal/config"
	"github.com/studiox/forms-backend/internal/http/handlers"
	"github.com/studiox/forms-backend/internal/http/middleware"
	"github.com/studiox/forms-backend/internal/mail"
	"github.com/studiox/forms-backend/internal/relay"
	"github.com/studiox/forms-backend/internal/services"
	"github.com/studiox/forms-backend/internal/token"
)

// unsubscribePath is excluded from CORS header injection.
const unsubscribePath = "/api/unsubscribe"

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per IP)
//  8. CORS (skipped for the unsubscribe pages)
//  9. Security headers, gzip
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction. The unsubscribe link carries the
	// visitor's email and token in the query string, so the plain Logger is
	// not an option here.
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	// 8) CORS: exact allowlist plus the localhost escape hatch, approved
	// origins echoed back verbatim. A disallowed origin is not rejected; it
	// gets no approval header and the request is processed normally.
	// Installed globally so preflights are answered even though no OPTIONS
	// route is registered, with the unsubscribe pages carved out.
	corsHandler := middleware.CORS(middleware.NewOriginGate(cfg.CORS.AllowedOrigins))
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == unsubscribePath {
			c.Next()
			return
		}
		corsHandler(c)
	})

	// 9) Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Fallbacks, matching the public contract of the old worker.
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	// Dependency injection: services ← relay/mail/token/db
	var relayClient relay.Client
	if cfg.CRMEndpoint != "" {
		relayClient = relay.NewHTTPClient(cfg.CRMEndpoint, nil)
	}
	submissionSvc := services.NewSubmissionService(relayClient)

	var mailer mail.Mailer
	if cfg.Mail.SMTPAddr != "" {
		mailer = mail.NewSMTPMailer(cfg.Mail)
	}
	ingestSvc := services.NewIngestService(db, mailer,
		mail.NewBuilder(cfg.Mail),
		token.NewService(cfg.UnsubscribeSecret),
		cfg.UnsubscribeURL)

	contact := handlers.NewContactHandler(submissionSvc)
	unsub := handlers.NewUnsubscribeHandler(submissionSvc)
	crm := handlers.NewCRMHandler(ingestSvc)

	// Edge surface
	api := r.Group("/api")
	{
		api.POST("/contact", contact.Submit)
		api.GET("/health", handlers.Health)
		api.GET("/unsubscribe", unsub.ConfirmPage)
		api.POST("/unsubscribe", unsub.Submit)
	}

	// CRM surface
	hooks := r.Group("/hooks/crm")
	{
		hooks.GET("", crm.Health)
		hooks.POST("", crm.Receive)
		hooks.GET("/leads", crm.ListLeads)
		hooks.PUT("/leads/:id/status", crm.UpdateStatus)
		hooks.GET("/stats", crm.Stats)
	}
}

// limitBody caps the request body size using http.MaxBytesReader; reads past
// the cap error out downstream.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
