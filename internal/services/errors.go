// Package services defines the business logic for the form-relay pipeline
// and the CRM-side ingestion. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed
// at the handler layer.
package services

import (
	"errors"
	"fmt"

	"github.com/studiox/forms-backend/internal/forms"
)

var (
	// ErrInvalidToken is returned when an unsubscribe token does not verify
	// against the supplied email address.
	ErrInvalidToken = errors.New("invalid unsubscribe token")

	// ErrMissingCredentials is returned when an unsubscribe request lacks
	// the email or the token.
	ErrMissingCredentials = errors.New("email and token are required")

	// ErrRelayUnavailable is returned on the unsubscribe path when no
	// downstream endpoint is configured, so the suppression cannot be
	// recorded anywhere.
	ErrRelayUnavailable = errors.New("no downstream endpoint configured")

	// ErrLeadNotFound indicates that the requested lead does not exist.
	ErrLeadNotFound = errors.New("lead not found")

	// ErrInvalidStatus is returned when a status update names a value
	// outside the allowed lead statuses.
	ErrInvalidStatus = errors.New("invalid lead status")
)

// ValidationError carries the per-field failures of a rejected submission.
// Handlers unwrap it with errors.As and render the field list as a 400.
type ValidationError struct {
	Fields []forms.FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("submission failed validation on %d field(s)", len(e.Fields))
}
