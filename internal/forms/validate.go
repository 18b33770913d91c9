// Package forms implements the pure request-validation and sanitization
// pipeline applied to contact-form submissions before they are relayed to
// the CRM tier.
//
// Submissions arrive as loosely-typed maps (arbitrary string keys to
// arbitrary values) because the edge accepts JSON, form-encoded, and
// query-string bodies interchangeably. Both Validate and Sanitize operate
// on that map shape and never mutate their input.
package forms

import (
	"regexp"
	"strings"
)

// FieldError describes a single validation failure on a named field.
// The message is user-facing copy, safe to render in the form UI.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// emailRE is a deliberately loose local@domain.tld shape check: at least one
// non-whitespace/non-@ run, an "@", and a domain containing a dot. It is not
// RFC 5322 and is not meant to be.
var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks the required fields and formats of a submission and
// returns one FieldError per violated rule, in a stable order. An empty
// slice means the submission is valid.
//
// Rules (all independent; every violation is reported, not just the first):
//   - name: present, trimmed length >= 2
//   - email: present, matches the local@domain.tld shape
//   - message: present, trimmed length >= 10
//   - marketing_consent: exactly the literal "yes"
//
// Any error blocks forwarding entirely; there is no partial credit.
func Validate(data map[string]any) []FieldError {
	var errs []FieldError

	if name := stringField(data, "name"); len(strings.TrimSpace(name)) < 2 {
		errs = append(errs, FieldError{Field: "name", Message: "Please enter your name"})
	}

	if email := stringField(data, "email"); !emailRE.MatchString(email) {
		errs = append(errs, FieldError{Field: "email", Message: "Please enter a valid email address"})
	}

	if msg := stringField(data, "message"); len(strings.TrimSpace(msg)) < 10 {
		errs = append(errs, FieldError{Field: "message", Message: "Please tell us a bit more about your goals"})
	}

	if consent := stringField(data, "marketing_consent"); consent != "yes" {
		errs = append(errs, FieldError{Field: "marketing_consent", Message: "Please agree to receive updates"})
	}

	return errs
}

// stringField returns the value under key when it is a string, "" otherwise.
// Missing keys and non-string values fail validation the same way.
func stringField(data map[string]any, key string) string {
	if v, ok := data[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
