package redact

import (
	"strings"
	"testing"
)

func TestSanitizeEmail(t *testing.T) {
	r := Sanitize("Contact founder@example.com for details")
	if !r.WasRedacted() {
		t.Fatal("expected a redaction")
	}
	if r.Sanitized != "Contact [EMAIL] for details" {
		t.Errorf("Sanitized = %q", r.Sanitized)
	}
	if r.Redactions[0].Type != "email" || r.Redactions[0].Matched != "founder@example.com" {
		t.Errorf("redaction = %+v", r.Redactions[0])
	}
}

func TestSanitizeSSN(t *testing.T) {
	r := Sanitize("SSN is 123-45-6789 per the filing")
	if !strings.Contains(r.Sanitized, "[SSN]") {
		t.Errorf("Sanitized = %q", r.Sanitized)
	}
	if strings.Contains(r.Sanitized, "123-45-6789") {
		t.Error("SSN survived sanitization")
	}
}

func TestSanitizePhone(t *testing.T) {
	for _, in := range []string{
		"call 415-555-0100 today",
		"call (415) 555-0100 today",
		"call +1 415 555 0100 today",
	} {
		r := Sanitize(in)
		if !strings.Contains(r.Sanitized, "[PHONE]") {
			t.Errorf("Sanitize(%q) = %q, no phone marker", in, r.Sanitized)
		}
	}
}

func TestSanitizeCreditCard(t *testing.T) {
	r := Sanitize("card 4111 1111 1111 1111 on file")
	if !strings.Contains(r.Sanitized, "[CARD]") {
		t.Errorf("Sanitized = %q", r.Sanitized)
	}
}

func TestSanitizeIPAddress(t *testing.T) {
	r := Sanitize("server at 10.0.42.7 responded")
	if !strings.Contains(r.Sanitized, "[IP]") {
		t.Errorf("Sanitized = %q", r.Sanitized)
	}
}

func TestSanitizeCleanTextUnchanged(t *testing.T) {
	in := "Evaluate this venture: B2B analytics for small retailers."
	r := Sanitize(in)
	if r.WasRedacted() {
		t.Fatalf("unexpected redactions: %v", r.Redactions)
	}
	if r.Sanitized != in {
		t.Errorf("clean text was modified: %q", r.Sanitized)
	}
}

func TestSanitizeMultipleCategories(t *testing.T) {
	r := Sanitize("Email a@b.co or b@c.io, SSN 123-45-6789")
	if len(r.Redactions) != 3 {
		t.Fatalf("expected 3 redactions, got %d: %v", len(r.Redactions), r.Redactions)
	}
	types := r.Types()
	if len(types) != 2 || types[0] != "email" || types[1] != "ssn" {
		t.Errorf("Types() = %v", types)
	}
}

func TestOriginalIsPreserved(t *testing.T) {
	in := "Contact founder@example.com"
	r := Sanitize(in)
	if r.Original != in {
		t.Errorf("Original = %q, want %q", r.Original, in)
	}
}

func TestSanitizeWithCustomPatterns(t *testing.T) {
	r := SanitizeWith("order ORD-12345 shipped", nil)
	if r.WasRedacted() {
		t.Fatal("no patterns means no redactions")
	}
}
