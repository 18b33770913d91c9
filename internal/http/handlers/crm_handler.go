// CRM webhook HTTP handlers.
//
// This file exposes the CRM surface under /hooks/crm:
//   - GET  /hooks/crm                    (health probe)
//   - POST /hooks/crm                    (receive a forwarded submission or
//     an unsubscribe action, dispatched on the "action" field)
//   - GET  /hooks/crm/leads              (list, paginated, newest first)
//   - PUT  /hooks/crm/leads/:id/status   (advance a lead through the pipeline)
//   - GET  /hooks/crm/stats              (dashboard summary)
//
// The edge relay posts both payload kinds to the same endpoint, so Receive
// dispatches on the action field rather than the path.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studiox/forms-backend/internal/domain"
	"github.com/studiox/forms-backend/internal/services"
)

// IngestService defines the CRM-side operations consumed by these handlers.
type IngestService interface {
	// Ingest persists a forwarded submission and sends the notifications.
	Ingest(ctx context.Context, payload map[string]any) (*domain.Lead, error)
	// ProcessUnsubscribe verifies the token and records the suppression.
	ProcessUnsubscribe(ctx context.Context, email, token, reason string) error
	// ListLeads returns one page of leads plus the total count.
	ListLeads(ctx context.Context, page, pageSize int) ([]domain.Lead, int64, error)
	// UpdateStatus advances a lead through the pipeline.
	UpdateStatus(ctx context.Context, id, status, notes string) error
	// GetStats returns the dashboard summary.
	GetStats(ctx context.Context) (*services.Stats, error)
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// CRMHandler groups the CRM webhook endpoints.
type CRMHandler struct {
	svc IngestService
}

// NewCRMHandler returns a CRMHandler bound to svc.
func NewCRMHandler(svc IngestService) *CRMHandler {
	return &CRMHandler{svc: svc}
}

// Receive handles a forwarded payload from the edge. Unsubscribe actions
// carry `action: "unsubscribe"`; everything else is treated as a submission.
func (h *CRMHandler) Receive(c *gin.Context) {
	data, err := parseJSONBody(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if action, _ := data["action"].(string); action == "unsubscribe" {
		h.receiveUnsubscribe(c, data)
		return
	}

	lead, err := h.svc.Ingest(c.Request.Context(), data)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to record submission")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Form submitted successfully",
		"lead_id": lead.ID,
	})
}

func (h *CRMHandler) receiveUnsubscribe(c *gin.Context, data map[string]any) {
	email, _ := data["email"].(string)
	tok, _ := data["token"].(string)
	reason, _ := data["reason"].(string)

	err := h.svc.ProcessUnsubscribe(c.Request.Context(), email, tok, reason)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Successfully unsubscribed",
		})
	case errors.Is(err, services.ErrMissingCredentials):
		respondError(c, http.StatusBadRequest, "Email and token are required")
	case errors.Is(err, services.ErrInvalidToken):
		respondError(c, http.StatusBadRequest, "Invalid unsubscribe token")
	default:
		respondError(c, http.StatusInternalServerError, "Failed to process unsubscribe")
	}
}

// ListLeads returns one page of leads, newest first.
func (h *CRMHandler) ListLeads(c *gin.Context) {
	page := atoiDefault(c.Query("page"), 1)
	pageSize := atoiDefault(c.Query("page_size"), 20)
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	leads, total, err := h.svc.ListLeads(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list leads")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"leads":      leads,
		"pagination": newPagination(page, pageSize, total),
	})
}

// updateStatusRequest is the JSON payload for a status update.
type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// UpdateStatus advances a lead through the pipeline.
func (h *CRMHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Status is required")
		return
	}

	err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.Notes)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, services.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, "Invalid lead status")
	case errors.Is(err, services.ErrLeadNotFound):
		respondError(c, http.StatusNotFound, "Lead not found")
	default:
		respondError(c, http.StatusInternalServerError, "Failed to update lead")
	}
}

// Stats returns the dashboard summary.
func (h *CRMHandler) Stats(c *gin.Context) {
	stats, err := h.svc.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Health reports whether the CRM and its storage are up.
func (h *CRMHandler) Health(c *gin.Context) {
	storage := "ok"
	status := http.StatusOK
	if err := h.svc.Ping(c.Request.Context()); err != nil {
		storage = "unreachable"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":    "ok",
		"service":   "Studio X CRM",
		"storage":   storage,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
