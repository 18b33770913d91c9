// Contact form HTTP handlers.
//
// Handlers are transport-thin: they parse the body, collect request
// metadata, call the submission service, and translate results into the
// envelope the website's form script expects. A relay failure never reaches
// this layer for contact posts; the service swallows it.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studiox/forms-backend/internal/services"
)

// SubmissionService defines the edge pipeline operations consumed by the
// contact and unsubscribe handlers.
type SubmissionService interface {
	// Process validates, sanitizes, and best-effort-forwards a submission.
	Process(ctx context.Context, raw map[string]any, meta services.RequestMeta) (map[string]any, error)
	// Unsubscribe forwards an unsubscribe action and blocks on the result.
	Unsubscribe(ctx context.Context, email, token, reason string) error
}

// ContactHandler serves POST /api/contact.
type ContactHandler struct {
	svc SubmissionService
}

// NewContactHandler returns a ContactHandler bound to svc.
func NewContactHandler(svc SubmissionService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// Submit handles a contact form post. On validation failure every failing
// field is reported at once; on success the response carries the thank-you
// redirect for the form script to follow.
func (h *ContactHandler) Submit(c *gin.Context) {
	data, err := parseSubmission(c.Request)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	meta := services.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Country:   c.GetHeader("CF-IPCountry"),
	}

	if _, err := h.svc.Process(c.Request.Context(), data, meta); err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			respondValidation(c, verr.Fields)
			return
		}
		respondError(c, http.StatusInternalServerError,
			"Something went wrong. Please try again or DM us on Instagram.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Thank you! We'll be in touch soon.",
		"redirect": "/contact/thank-you/",
	})
}

// Health serves GET /api/health with the service heartbeat payload.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "Studio X Form Handler",
	})
}
