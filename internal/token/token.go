// Package token implements the keyed-hash unsubscribe credential.
//
// A token proves the bearer is authorized to suppress marketing email to a
// given address. Tokens are stateless and deterministic: sha256 over the
// normalized email plus a shared secret, encoded with a URL-safe alphabet
// and truncated to a fixed length. There is no token table to store, which
// also means no revocation short of rotating the secret for everyone at
// once. That tradeoff is deliberate for a low-stakes unsubscribe flow, and
// tokens never expire.
package token

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Length is the fixed size of an issued token in characters.
const Length = 32

// Service issues and verifies unsubscribe tokens for a single shared secret.
type Service struct {
	secret string
}

// NewService returns a Service bound to the given shared secret.
func NewService(secret string) *Service {
	return &Service{secret: secret}
}

// Issue derives the unsubscribe token for email. The address is lower-cased
// and trimmed first, so tokens are stable across case and whitespace
// variations of the same mailbox.
func (s *Service) Issue(email string) string {
	sum := s.digest(email)
	return base64.RawURLEncoding.EncodeToString(sum[:])[:Length]
}

// Verify reports whether tok is a valid unsubscribe token for email.
//
// Besides the current URL-safe format it also accepts the legacy encoding
// (standard base64 alphabet truncated before padding removal) so links in
// old emails keep working.
//
// Comparison is plain equality. Constant-time comparison would be a
// hardening improvement, but the credential only gates an unsubscribe
// write, so the current behavior is kept.
func (s *Service) Verify(email, tok string) bool {
	if tok == "" {
		return false
	}
	if tok == s.Issue(email) {
		return true
	}
	sum := s.digest(email)
	legacy := base64.StdEncoding.EncodeToString(sum[:])[:Length]
	return tok == legacy
}

func (s *Service) digest(email string) [sha256.Size]byte {
	normalized := strings.ToLower(strings.TrimSpace(email)) + s.secret
	return sha256.Sum256([]byte(normalized))
}
