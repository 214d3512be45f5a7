// Package model holds value types shared by the governance and
// observability packages. Everything here is immutable once created.
package model

import "fmt"

// Outcome classifies the result of one audited decision.
type Outcome string

const (
	OutcomePass Outcome = "pass"
	OutcomeFail Outcome = "fail"
	OutcomeInfo Outcome = "info"
)

// Severity ranks alert importance.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarn     Severity = "warn"
	SeverityCritical Severity = "critical"
)

// OutcomeFor maps a pass/fail boolean to an Outcome.
func OutcomeFor(passed bool) Outcome {
	if passed {
		return OutcomePass
	}
	return OutcomeFail
}

// TimestampFormat is the canonical UTC timestamp layout used in audit
// entries and exports.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// ViolationError is raised when a safety check blocks the pipeline stage
// that produced or received the offending content. It is a hard stop,
// distinct from an ordinary policy denial.
type ViolationError struct {
	Stage   string // boundary that tripped, e.g. "shield:market"
	Reason  string
	Details []string
}

func (e *ViolationError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("safety violation at %s: %s (%d findings)", e.Stage, e.Reason, len(e.Details))
	}
	return fmt.Sprintf("safety violation at %s: %s", e.Stage, e.Reason)
}
