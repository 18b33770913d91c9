// Package services – IngestService
//
// This file implements the CRM side of the pipeline: persist a forwarded
// submission as a lead, maintain the marketing list and the unsubscribe
// set, send the two notification emails, and serve the operator-facing
// queries (lead listing, status updates, stats).
//
// Ordering matters in Ingest: the lead row is written before any email is
// attempted, so a mail outage never loses a lead. Mail failures after the
// write are returned to the caller; the edge swallows them anyway, and the
// lead is already on record.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studiox/forms-backend/internal/domain"
	"github.com/studiox/forms-backend/internal/mail"
	"github.com/studiox/forms-backend/internal/observability"
	"github.com/studiox/forms-backend/internal/repo"
	"github.com/studiox/forms-backend/internal/token"
)

// Stats is the dashboard summary over the CRM data.
type Stats struct {
	TotalLeads        int64            `json:"total_leads"`
	ByStatus          map[string]int64 `json:"by_status"`
	MarketingContacts int64            `json:"marketing_contacts"`
	Unsubscribes      int64            `json:"unsubscribes"`
}

// IngestService persists forwarded submissions and runs the CRM-side flows.
type IngestService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Mailer sends the notification emails. Nil disables notifications.
	Mailer mail.Mailer
	// Builder renders the notification messages.
	Builder *mail.Builder
	// Tokens issues and verifies unsubscribe tokens.
	Tokens *token.Service
	// UnsubscribeURL is the public base URL of the unsubscribe page,
	// used when building the link in the visitor confirmation.
	UnsubscribeURL string
}

// NewIngestService constructs an IngestService.
func NewIngestService(db *gorm.DB, mailer mail.Mailer, builder *mail.Builder, tokens *token.Service, unsubscribeURL string) *IngestService {
	return &IngestService{
		DB:             db,
		Mailer:         mailer,
		Builder:        builder,
		Tokens:         tokens,
		UnsubscribeURL: unsubscribeURL,
	}
}

// Ingest records a forwarded submission as a lead and sends the
// notifications. The lead row is always written first; when the visitor
// opted in, their address is also appended to the marketing list. The
// visitor confirmation is skipped when the address is on the unsubscribe
// set; the owner alert and the lead write happen regardless.
func (s *IngestService) Ingest(ctx context.Context, payload map[string]any) (*domain.Lead, error) {
	lead, err := repo.CreateLead(ctx, s.DB, leadFromPayload(payload))
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	if lead.MarketingConsent {
		if err := repo.AddMarketingContact(ctx, s.DB, lead.Name, lead.Email, lead.Source); err != nil {
			// The lead row is the system of record; a marketing-list
			// append failure is not worth failing the ingest over.
			log.Warn().Err(err).Str("lead_id", lead.ID).Msg("failed to append marketing contact")
		}
	}

	if err := s.sendNotifications(ctx, lead); err != nil {
		return lead, err
	}
	return lead, nil
}

// sendNotifications sends the owner alert and, unless the address is
// suppressed, the visitor confirmation.
func (s *IngestService) sendNotifications(ctx context.Context, lead *domain.Lead) error {
	if s.Mailer == nil {
		return nil
	}

	if err := s.Mailer.Send(ctx, s.Builder.OwnerNotification(lead)); err != nil {
		return fmt.Errorf("send owner notification: %w", err)
	}

	suppressed, err := repo.IsUnsubscribed(ctx, s.DB, lead.Email)
	if err != nil {
		return fmt.Errorf("check unsubscribe set: %w", err)
	}
	if suppressed {
		log.Info().Str("lead_id", lead.ID).Msg("address unsubscribed, skipping visitor confirmation")
		return nil
	}

	msg := s.Builder.VisitorConfirmation(lead, s.unsubscribeLink(lead.Email))
	if err := s.Mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send visitor confirmation: %w", err)
	}
	return nil
}

// unsubscribeLink builds the one-click unsubscribe URL for email.
func (s *IngestService) unsubscribeLink(email string) string {
	return fmt.Sprintf("%s?token=%s&email=%s",
		s.UnsubscribeURL, s.Tokens.Issue(email), url.QueryEscape(email))
}

// ProcessUnsubscribe verifies the token, appends the address to the
// unsubscribe set, and removes it from the marketing list. The append is
// idempotent; a repeat unsubscribe succeeds without a second row.
func (s *IngestService) ProcessUnsubscribe(ctx context.Context, email, tok, reason string) error {
	if email == "" || tok == "" {
		return ErrMissingCredentials
	}
	if !s.Tokens.Verify(email, tok) {
		return ErrInvalidToken
	}

	created, err := repo.AddUnsubscribe(ctx, s.DB, email, reason)
	if err != nil {
		return fmt.Errorf("append unsubscribe: %w", err)
	}
	if created {
		observability.UnsubscribesTotal.Inc()
	}

	if removed, err := repo.RemoveMarketingContacts(ctx, s.DB, email); err != nil {
		// The suppression record is in place, so marketing mail is already
		// blocked; the stale list rows are only cosmetic.
		log.Warn().Err(err).Msg("failed to remove marketing contacts")
	} else if removed > 0 {
		log.Info().Int64("removed", removed).Msg("removed marketing contacts for unsubscribed address")
	}
	return nil
}

// ListLeads returns one page of leads, newest first, plus the total count.
// Invalid page/pageSize values fall back to defaults.
func (s *IngestService) ListLeads(ctx context.Context, page, pageSize int) ([]domain.Lead, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return repo.ListLeadsPage(ctx, s.DB, (page-1)*pageSize, pageSize)
}

// UpdateStatus advances a lead through the pipeline. Returns
// ErrInvalidStatus for unknown statuses and ErrLeadNotFound for missing ids.
func (s *IngestService) UpdateStatus(ctx context.Context, id, status, notes string) error {
	if !domain.ValidStatus(status) {
		return ErrInvalidStatus
	}
	if err := repo.UpdateLeadStatus(ctx, s.DB, id, status, notes); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrLeadNotFound
		}
		return err
	}
	return nil
}

// Ping reports whether the backing store is reachable.
func (s *IngestService) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// GetStats returns the dashboard summary.
func (s *IngestService) GetStats(ctx context.Context) (*Stats, error) {
	byStatus, err := repo.CountLeadsByStatus(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	total, err := repo.CountLeads(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	marketing, err := repo.CountMarketingContacts(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	unsubs, err := repo.CountUnsubscribes(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalLeads:        total,
		ByStatus:          byStatus,
		MarketingContacts: marketing,
		Unsubscribes:      unsubs,
	}, nil
}

// leadFromPayload maps a forwarded submission onto a Lead. Unknown keys are
// ignored; a malformed submitted_at falls back to the insert time.
func leadFromPayload(payload map[string]any) *domain.Lead {
	lead := &domain.Lead{
		Name:             str(payload, "name"),
		Email:            str(payload, "email"),
		Phone:            str(payload, "phone"),
		Interest:         str(payload, "interest"),
		Message:          str(payload, "message"),
		MarketingConsent: str(payload, "marketing_consent") == "yes",
		Source:           str(payload, "source"),
		Country:          str(payload, "country"),
		IP:               str(payload, "ip"),
		UserAgent:        str(payload, "user_agent"),
	}
	if ts, err := time.Parse(time.RFC3339, str(payload, "submitted_at")); err == nil {
		lead.SubmittedAt = ts
	}
	return lead
}

func str(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}
