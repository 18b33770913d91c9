// Package handlers provides the HTTP handler implementations for both
// surfaces of the service: the public form endpoints under /api and the
// CRM webhook endpoints under /hooks/crm.
//
// This file defines the response envelope used across the JSON endpoints.
// The shape is part of the public contract with the website's form script:
//
//	HTTP/1.1 200 OK
//	{ "success": true, "message": "Thank you! We'll be in touch soon.",
//	  "redirect": "/contact/thank-you/" }
//
//	HTTP/1.1 400 Bad Request
//	{ "success": false, "errors": [ { "field": "email",
//	  "message": "Please enter a valid email address" } ] }
//
//	HTTP/1.1 500 Internal Server Error
//	{ "success": false, "error": "Something went wrong. ..." }
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studiox/forms-backend/internal/forms"
	"github.com/studiox/forms-backend/internal/http/middleware"
)

// respondError writes a failure envelope. Server-side errors (>= 500) are
// logged with the request-scoped logger before the response is written.
func respondError(c *gin.Context, status int, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   msg,
	})
}

// respondValidation writes the per-field rejection envelope. Every failing
// field is reported in one pass so the form can mark them all at once.
func respondValidation(c *gin.Context, fields []forms.FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"errors":  fields,
	})
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// newPagination computes the metadata for a page of total items.
func newPagination(page, pageSize int, total int64) Pagination {
	pages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		pages++
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: pages}
}
