// Unsubscribe page handlers.
//
// These endpoints render HTML, not JSON: the visitor lands here from a link
// in a confirmation email, confirms on a small form, and the form posts back
// to the same path. The POST forwards the action to the CRM and blocks on
// the result; unlike the contact flow, a downstream failure here is shown to
// the visitor, because unsubscribe has no meaningful success without the
// backing record being written.
//
// The GET deliberately does not verify the token. It only renders the
// confirmation form; verification happens on the POST, against the
// authoritative suppression set on the CRM side.
package handlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studiox/forms-backend/internal/http/middleware"
	"github.com/studiox/forms-backend/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageTemplates holds the parsed unsubscribe pages. Parsing happens at init
// so a malformed template fails fast at startup, not per request.
var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// UnsubscribeHandler serves GET and POST /api/unsubscribe.
type UnsubscribeHandler struct {
	svc SubmissionService
}

// NewUnsubscribeHandler returns an UnsubscribeHandler bound to svc.
func NewUnsubscribeHandler(svc SubmissionService) *UnsubscribeHandler {
	return &UnsubscribeHandler{svc: svc}
}

// confirmData feeds the confirmation form template.
type confirmData struct {
	Email string
	Token string
}

// resultData feeds the success/error page template.
type resultData struct {
	Success bool
	Heading string
	Message string
}

// ConfirmPage renders the confirmation form when the link carries both email
// and token, and an error page otherwise.
func (h *UnsubscribeHandler) ConfirmPage(c *gin.Context) {
	email := c.Query("email")
	tok := c.Query("token")
	if email == "" || tok == "" {
		renderPage(c, http.StatusBadRequest, "unsubscribe_result.html", resultData{
			Heading: "Invalid unsubscribe link",
			Message: "This link is missing information. Please use the unsubscribe link from one of our emails.",
		})
		return
	}
	renderPage(c, http.StatusOK, "unsubscribe_confirm.html", confirmData{Email: email, Token: tok})
}

// Submit forwards the unsubscribe action downstream and renders the outcome.
func (h *UnsubscribeHandler) Submit(c *gin.Context) {
	email := c.PostForm("email")
	tok := c.PostForm("token")
	reason := c.PostForm("reason")

	err := h.svc.Unsubscribe(c.Request.Context(), email, tok, reason)
	switch {
	case err == nil:
		renderPage(c, http.StatusOK, "unsubscribe_result.html", resultData{
			Success: true,
			Heading: "You're unsubscribed",
			Message: "You won't receive any more marketing emails from us.",
		})
	case errors.Is(err, services.ErrMissingCredentials):
		renderPage(c, http.StatusBadRequest, "unsubscribe_result.html", resultData{
			Heading: "Invalid request",
			Message: "This request is missing information. Please use the unsubscribe link from one of our emails.",
		})
	default:
		middleware.LoggerFrom(c).Error().Err(err).Msg("unsubscribe failed")
		renderPage(c, http.StatusBadGateway, "unsubscribe_result.html", resultData{
			Heading: "Something went wrong",
			Message: "We couldn't process your unsubscribe right now. Please try again in a few minutes.",
		})
	}
}

// renderPage executes one of the embedded page templates. HTML rendering
// errors after headers are sent can only be logged.
func renderPage(c *gin.Context, status int, name string, data any) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(c.Writer, name, data); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Str("template", name).Msg("render failed")
	}
}
