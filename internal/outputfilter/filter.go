// Package outputfilter scans agent output for leaked secrets before it
// leaves the pipeline. Detection only — redaction of model inputs is
// the redact package's job.
package outputfilter

import "regexp"

// secretPatterns match credential material in output text. Ordered
// from most to least specific.
var secretPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"aws_key", regexp.MustCompile(`(?:AKIA|ABIA|ACCA|ASIA)[0-9A-Z]{16}`)},
	{"aws_secret", regexp.MustCompile(`(?i)aws[_\-]?secret[_\-]?access[_\-]?key[\s:="']+[A-Za-z0-9/+=]{40}`)},
	{"private_key", regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA )?PRIVATE KEY-----`)},
	{"bearer_token", regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-_.~+/]{16,}=*`)},
	{"generic_api_key", regexp.MustCompile(`(?i)(?:api[_\-]?key|apikey)[\s:="']+[A-Za-z0-9\-_.]{20,}`)},
	{"generic_secret", regexp.MustCompile(`(?i)(?:secret|password|passwd|token)[\s:="']+[A-Za-z0-9\-_.!@#$%^&*]{8,}`)},
}

// Detection is one suspected secret in the output.
type Detection struct {
	Type     string `json:"type"`
	Position int    `json:"position"`
	Snippet  string `json:"snippet"`
}

// Result reports whether the output is clean.
type Result struct {
	Passed     bool        `json:"passed"`
	Detections []Detection `json:"detections,omitempty"`
}

// Scan checks output text for leaked secrets. Passed is false when any
// pattern matches.
func Scan(text string) Result {
	var detections []Detection

	for _, p := range secretPatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			snipStart := max(0, start-10)
			snipEnd := min(len(text), end+10)
			detections = append(detections, Detection{
				Type:     p.name,
				Position: start,
				Snippet:  text[snipStart:snipEnd],
			})
		}
	}

	return Result{Passed: len(detections) == 0, Detections: detections}
}
