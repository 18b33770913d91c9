// Package services – SubmissionService
//
// This file implements the edge side of the pipeline: validate the raw
// submission, sanitize it, attach request metadata, and forward it to the
// configured CRM endpoint. The forward is best-effort: a relay failure is
// logged and counted but never surfaced to the visitor, whose intent was
// satisfied the moment the form was accepted.
//
// The unsubscribe forward is the opposite: it blocks on the downstream
// write and propagates failure, because claiming "you are unsubscribed"
// without the backing record would be a lie.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/studiox/forms-backend/internal/forms"
	"github.com/studiox/forms-backend/internal/observability"
	"github.com/studiox/forms-backend/internal/relay"
)

// DefaultSource is the source label attached to every forwarded submission.
const DefaultSource = "Website Form"

// RequestMeta carries the request attributes the edge attaches to a
// submission before forwarding.
type RequestMeta struct {
	IP        string
	UserAgent string
	Country   string
}

// SubmissionService validates, sanitizes, and forwards contact submissions.
type SubmissionService struct {
	// Relay forwards payloads downstream. Nil disables forwarding (the
	// submission is still validated and accepted).
	Relay relay.Client
	// Source labels forwarded submissions, e.g. "Website Form".
	Source string
	// Now is the clock used for the submitted_at stamp; nil means time.Now.
	Now func() time.Time
}

// NewSubmissionService constructs a SubmissionService with the default
// source label. A nil relay client disables forwarding.
func NewSubmissionService(rc relay.Client) *SubmissionService {
	return &SubmissionService{Relay: rc, Source: DefaultSource}
}

// Process runs a raw submission through the pipeline: validation first, then
// sanitization, metadata attachment, and the best-effort forward.
//
// A *ValidationError is returned when any field fails; the sanitized payload
// is returned on success so callers (and tests) can see what was forwarded.
func (s *SubmissionService) Process(ctx context.Context, raw map[string]any, meta RequestMeta) (map[string]any, error) {
	if fieldErrs := forms.Validate(raw); len(fieldErrs) > 0 {
		observability.SubmissionsTotal.WithLabelValues("rejected").Inc()
		return nil, &ValidationError{Fields: fieldErrs}
	}

	clean := forms.Sanitize(raw)
	clean["source"] = s.Source
	clean["submitted_at"] = s.now().UTC().Format(time.RFC3339)
	clean["ip"] = orUnknown(meta.IP)
	clean["user_agent"] = orUnknown(meta.UserAgent)
	clean["country"] = orUnknown(meta.Country)

	observability.SubmissionsTotal.WithLabelValues("accepted").Inc()

	if s.Relay == nil {
		log.Debug().Msg("no CRM endpoint configured, submission not forwarded")
		return clean, nil
	}
	if err := s.Relay.ForwardSubmission(ctx, clean); err != nil {
		// Swallowed: the visitor still sees success.
		observability.RelayFailuresTotal.WithLabelValues("submission").Inc()
		log.Error().Err(err).Msg("failed to forward submission to CRM")
	}
	return clean, nil
}

// Unsubscribe forwards an unsubscribe action downstream and blocks on the
// result. Token verification happens on the CRM side, which holds the
// authoritative suppression set.
func (s *SubmissionService) Unsubscribe(ctx context.Context, email, tok, reason string) error {
	if email == "" || tok == "" {
		return ErrMissingCredentials
	}
	if s.Relay == nil {
		return ErrRelayUnavailable
	}
	err := s.Relay.ForwardUnsubscribe(ctx, relay.UnsubscribeRequest{
		Email:  email,
		Token:  tok,
		Reason: reason,
	})
	if err != nil {
		observability.RelayFailuresTotal.WithLabelValues("unsubscribe").Inc()
		return fmt.Errorf("forward unsubscribe: %w", err)
	}
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func (s *SubmissionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
