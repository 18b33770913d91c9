// Package mail – notification builders.
//
// Two messages leave the system per accepted lead: a full-detail alert to
// the business owner (reply-to set to the visitor so a reply lands in their
// inbox) and a confirmation to the visitor carrying the unsubscribe link.
// Both are plain text; the submission fields were sanitized upstream and
// are never rendered as HTML.
package mail

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/studiox/forms-backend/internal/config"
	"github.com/studiox/forms-backend/internal/domain"
)

// interestLabels maps the form's interest codes to human labels.
var interestLabels = map[string]string{
	"private":     "Private Sessions",
	"group":       "Group Classes",
	"competition": "Competition Prep",
	"bjj":         "Wrestling for BJJ",
	"team":        "Team Clinic/Seminar",
	"other":       "Other",
}

var titleCaser = cases.Title(language.English)

// FormatInterest returns the display label for an interest code. Unknown
// non-empty codes are title-cased as-is; empty means "Not specified".
func FormatInterest(code string) string {
	if label, ok := interestLabels[code]; ok {
		return label
	}
	if strings.TrimSpace(code) == "" {
		return "Not specified"
	}
	return titleCaser.String(code)
}

// firstName returns the first whitespace-separated word of a full name,
// or fallback when the name is empty.
func firstName(name, fallback string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return fallback
	}
	return fields[0]
}

// Builder renders the notification messages from the mail configuration.
type Builder struct {
	cfg config.MailConfig
}

// NewBuilder returns a Builder for cfg.
func NewBuilder(cfg config.MailConfig) *Builder {
	return &Builder{cfg: cfg}
}

// OwnerNotification builds the new-lead alert for the business owner.
// Reply-To is the visitor so the owner can answer directly.
func (b *Builder) OwnerNotification(lead *domain.Lead) Message {
	consent := "No"
	if lead.MarketingConsent {
		consent = "Yes"
	}

	var body strings.Builder
	body.WriteString("New Contact Form Submission\n\n")
	fmt.Fprintf(&body, "Name: %s\n", orNotProvided(lead.Name))
	fmt.Fprintf(&body, "Email: %s\n", orNotProvided(lead.Email))
	fmt.Fprintf(&body, "Phone: %s\n", orNotProvided(lead.Phone))
	fmt.Fprintf(&body, "Interest: %s\n", FormatInterest(lead.Interest))
	fmt.Fprintf(&body, "Marketing Consent: %s\n", consent)
	fmt.Fprintf(&body, "\nMessage:\n%s\n", orDefault(lead.Message, "No message provided"))
	fmt.Fprintf(&body, "\n---\nReply to: %s\n", lead.Email)

	subjectInterest := "General Inquiry"
	if strings.TrimSpace(lead.Interest) != "" {
		subjectInterest = FormatInterest(lead.Interest)
	}

	return Message{
		From:    b.cfg.Sender,
		To:      b.cfg.OwnerEmail,
		ReplyTo: lead.Email,
		Subject: fmt.Sprintf("[New Lead] %s - %s", lead.Name, subjectInterest),
		Body:    body.String(),
	}
}

// VisitorConfirmation builds the thank-you message for the visitor,
// including the unsubscribe link in the footer.
func (b *Builder) VisitorConfirmation(lead *domain.Lead, unsubscribeLink string) Message {
	first := firstName(lead.Name, "there")

	var body strings.Builder
	fmt.Fprintf(&body, "Hey %s!\n\n", first)
	fmt.Fprintf(&body, "Thanks for reaching out to %s! We got your message and will get back to you within 24 hours.\n\n", b.cfg.BusinessName)
	body.WriteString("*** REMINDER: Your First Class is FREE! ***\n")
	body.WriteString("No commitment, no pressure - just show up and train.\n\n")
	body.WriteString("What happens next:\n")
	body.WriteString("1. One of our coaches will review your message\n")
	body.WriteString("2. We'll reach out to schedule your free session\n")
	body.WriteString("3. Come train with us!\n\n")
	fmt.Fprintf(&body, "Need a faster response? DM us on Instagram: %s\n\n", b.cfg.InstagramURL)
	fmt.Fprintf(&body, "Find us at:\n%s\n\n", b.cfg.Address)
	fmt.Fprintf(&body, "See you on the mat!\n- %s Team\n\n", b.cfg.BusinessName)
	fmt.Fprintf(&body, "To unsubscribe: %s\n", unsubscribeLink)

	return Message{
		From:    b.cfg.Sender,
		To:      lead.Email,
		ReplyTo: b.cfg.OwnerEmail,
		Subject: fmt.Sprintf("Thanks for reaching out, %s!", firstName(lead.Name, "wrestler")),
		Body:    body.String(),
	}
}

func orNotProvided(s string) string { return orDefault(s, "Not provided") }

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
