// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the CORS policy of the /api surface. The decision is
// kept in a small pure type (OriginGate) so the policy itself is
// unit-testable without spinning up a router; CORS wraps it into the
// header-injecting middleware wired at router construction.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// OriginGate decides which Origin values receive CORS approval.
//
// Policy:
//   - Exact match against the configured allowlist, or
//   - any origin whose host contains "localhost", so local dev servers on
//     arbitrary ports work without touching configuration.
//
// The localhost rule is a substring check, which also admits origins such as
// "https://localhost.evil.example". The form endpoint is public and
// unauthenticated, so approval discloses nothing a direct request would not;
// tighten to a proper host parse if that ever changes.
type OriginGate struct {
	allowed map[string]struct{}
}

// NewOriginGate builds a gate from the configured allowlist. Entries are
// matched byte-for-byte against the Origin header, so they must carry the
// scheme (e.g. "https://studiox.fit").
func NewOriginGate(origins []string) *OriginGate {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			allowed[o] = struct{}{}
		}
	}
	return &OriginGate{allowed: allowed}
}

// Allow reports whether origin may receive CORS approval. The approved
// origin is echoed back verbatim by the CORS middleware, never a wildcard.
func (g *OriginGate) Allow(origin string) bool {
	if origin == "" {
		return false
	}
	if _, ok := g.allowed[origin]; ok {
		return true
	}
	return strings.Contains(origin, "localhost")
}

// allowMethods and allowHeaders are the fixed CORS grants for the /api
// surface; the form script only ever POSTs.
const (
	allowMethods = "POST, OPTIONS"
	allowHeaders = "Origin, Content-Type, Accept"
	corsMaxAge   = "86400"
)

// CORS returns the middleware applying the gate's policy to the /api
// surface. It never rejects a request: an approved Origin is echoed back in
// Access-Control-Allow-Origin, a disallowed one simply gets no header and
// the request proceeds to the handler. The browser enforces the policy; the
// server only decides whether to grant approval.
//
// OPTIONS requests are answered directly with 204 and the method/header
// grants, with or without an Origin header, since no OPTIONS routes exist.
func CORS(gate *OriginGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Add("Vary", "Origin")

		if origin := c.GetHeader("Origin"); gate.Allow(origin) {
			h.Set("Access-Control-Allow-Origin", origin)
		}

		if c.Request.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			h.Set("Access-Control-Max-Age", corsMaxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
