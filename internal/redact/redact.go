// Package redact scans text for personally identifiable information
// and replaces matches with typed markers before the text crosses a
// model boundary.
package redact

import "regexp"

// Pattern pairs a PII category with its detection regex and the marker
// that replaces matches.
type Pattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
}

// DefaultPatterns are the built-in PII detectors, applied in order.
var DefaultPatterns = []Pattern{
	{
		Name:        "email",
		Regex:       regexp.MustCompile(`\b[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}\b`),
		Replacement: "[EMAIL]",
	},
	{
		Name:        "ssn",
		Regex:       regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		Replacement: "[SSN]",
	},
	{
		Name:        "phone",
		Regex:       regexp.MustCompile(`\b(?:\+1[ .\-]?)?\(?\d{3}\)?[ .\-]\d{3}[ .\-]\d{4}\b`),
		Replacement: "[PHONE]",
	},
	{
		Name:        "credit_card",
		Regex:       regexp.MustCompile(`\b(?:\d[ \-]?){13,16}\b`),
		Replacement: "[CARD]",
	},
	{
		Name:        "ip_address",
		Regex:       regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`),
		Replacement: "[IP]",
	},
}

// Redaction is one replaced occurrence.
type Redaction struct {
	Type        string `json:"type"`
	Matched     string `json:"matched"`
	Replacement string `json:"replacement"`
}

// Result holds the sanitized text and what was removed from it.
type Result struct {
	Original   string      `json:"original"`
	Sanitized  string      `json:"sanitized"`
	Redactions []Redaction `json:"redactions,omitempty"`
}

// WasRedacted reports whether anything was replaced.
func (r Result) WasRedacted() bool {
	return len(r.Redactions) > 0
}

// Types returns the distinct PII categories found, in detection order.
func (r Result) Types() []string {
	seen := make(map[string]bool)
	var out []string
	for _, red := range r.Redactions {
		if !seen[red.Type] {
			seen[red.Type] = true
			out = append(out, red.Type)
		}
	}
	return out
}

// Sanitize scans text with the default patterns.
func Sanitize(text string) Result {
	return SanitizeWith(text, DefaultPatterns)
}

// SanitizeWith scans text for PII and replaces matches with the
// pattern's marker. Patterns apply in order against the progressively
// sanitized text, so an earlier replacement is never re-matched.
func SanitizeWith(text string, patterns []Pattern) Result {
	result := Result{Original: text, Sanitized: text}

	for _, p := range patterns {
		for _, m := range p.Regex.FindAllString(result.Sanitized, -1) {
			result.Redactions = append(result.Redactions, Redaction{
				Type:        p.Name,
				Matched:     m,
				Replacement: p.Replacement,
			})
		}
		result.Sanitized = p.Regex.ReplaceAllString(result.Sanitized, p.Replacement)
	}

	return result
}
