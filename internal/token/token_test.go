package token

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"
)

func TestIssue_Format(t *testing.T) {
	svc := NewService("test-secret")
	tok := svc.Issue("jo@example.com")

	if len(tok) != Length {
		t.Fatalf("token length = %d, want %d", len(tok), Length)
	}
	if strings.ContainsAny(tok, "+/=") {
		t.Fatalf("token is not URL-safe: %q", tok)
	}
}

func TestIssue_NormalizesEmail(t *testing.T) {
	svc := NewService("test-secret")
	base := svc.Issue("jo@example.com")
	for _, variant := range []string{"JO@example.com", "  jo@example.com  ", "Jo@Example.COM"} {
		if got := svc.Issue(variant); got != base {
			t.Fatalf("Issue(%q) = %q, want %q", variant, got, base)
		}
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	svc := NewService("test-secret")
	emails := []string{"jo@example.com", "coach@studiox.fit", "A.B+tag@sub.example.org"}
	for _, e := range emails {
		if !svc.Verify(e, svc.Issue(e)) {
			t.Fatalf("round-trip failed for %q", e)
		}
	}
}

func TestVerify_RejectsWrongEmailOrToken(t *testing.T) {
	svc := NewService("test-secret")
	tok := svc.Issue("jo@example.com")

	if svc.Verify("other@example.com", tok) {
		t.Fatalf("token for jo accepted for other")
	}
	if svc.Verify("jo@example.com", "BADTOKEN") {
		t.Fatalf("garbage token accepted")
	}
	if svc.Verify("jo@example.com", "") {
		t.Fatalf("empty token accepted")
	}
}

func TestVerify_DifferentSecretsDisagree(t *testing.T) {
	a := NewService("secret-a")
	b := NewService("secret-b")
	if b.Verify("jo@example.com", a.Issue("jo@example.com")) {
		t.Fatalf("token issued under one secret verified under another")
	}
}

func TestVerify_AcceptsLegacyEncoding(t *testing.T) {
	svc := NewService("test-secret")
	sum := sha256.Sum256([]byte("jo@example.com" + "test-secret"))
	legacy := base64.StdEncoding.EncodeToString(sum[:])[:Length]
	if !svc.Verify("jo@example.com", legacy) {
		t.Fatalf("legacy token rejected")
	}
}
