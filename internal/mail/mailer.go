// Package mail provides the outbound email capability used by the CRM
// ingestion flow: a small Mailer interface so services can be tested with
// in-memory fakes, an SMTP implementation for production, and the builders
// for the two notification messages (owner alert and visitor confirmation).
package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/emersion/go-sasl"
	smtp "github.com/emersion/go-smtp"

	"github.com/studiox/forms-backend/internal/config"
)

// Message is a single plain-text email ready for submission.
type Message struct {
	From    string
	To      string
	ReplyTo string // optional
	Subject string
	Body    string
}

// Mailer sends messages. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer submits messages over SMTP with STARTTLS, authenticating with
// PLAIN when credentials are configured.
type SMTPMailer struct {
	addr     string
	username string
	password string
}

// NewSMTPMailer returns an SMTPMailer for the given mail configuration.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		addr:     cfg.SMTPAddr,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

// Send implements Mailer. The context is accepted for interface symmetry;
// the underlying SendMail call does not support cancellation mid-dial, so a
// cancelled context is only honored before the dial starts.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth sasl.Client
	if m.username != "" {
		auth = sasl.NewPlainClient("", m.username, m.password)
	}

	r := strings.NewReader(Render(msg))
	if err := smtp.SendMail(m.addr, auth, msg.From, []string{msg.To}, r); err != nil {
		return fmt.Errorf("mail: send to %s: %w", msg.To, err)
	}
	return nil
}

// Render serializes a Message into an RFC 5322 plain-text email.
func Render(msg Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return b.String()
}
