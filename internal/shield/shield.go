// Package shield runs external content-safety checks over text at
// trust boundaries and aggregates the results. The classifier is a
// black-box collaborator; absence of a violation signal is the only
// pass condition, and any transport failure or timeout is treated as a
// violation (fail closed, never fail open).
package shield

import (
	"context"
	"fmt"
	"time"
)

// Result is the normalized outcome of one shield check.
type Result struct {
	Passed         bool   `json:"passed"`
	ViolationLevel string `json:"violation_level,omitempty"`
	Message        string `json:"message,omitempty"`
}

// MultiResult aggregates the results of every configured shield with
// logical AND. All shields run even after one fails, so a single audit
// write captures all simultaneous violations.
type MultiResult struct {
	Passed  bool              `json:"passed"`
	Results map[string]Result `json:"results"`
}

// Violations returns the failing subset of results.
func (m MultiResult) Violations() map[string]Result {
	out := make(map[string]Result)
	for id, r := range m.Results {
		if !r.Passed {
			out[id] = r
		}
	}
	return out
}

// Classifier is the external content-safety service.
type Classifier interface {
	// Classify runs one shield over content. A returned error means
	// the check could not be performed; callers treat that as a
	// violation.
	Classify(ctx context.Context, shieldID, content string) (Result, error)
}

// Run executes one shield with a bounded timeout. Errors and timeouts
// become failed results carrying the cause.
func Run(ctx context.Context, c Classifier, content, shieldID string, timeout time.Duration) Result {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := c.Classify(ctx, shieldID, content)
	if err != nil {
		return Result{
			Passed:         false,
			ViolationLevel: "error",
			Message:        fmt.Sprintf("shield check failed closed: %v", err),
		}
	}
	return result
}

// RunAll executes the full configured shield set unconditionally, with
// no short-circuit on first failure, and ANDs the outcomes.
func RunAll(ctx context.Context, c Classifier, content string, shieldIDs []string, timeout time.Duration) MultiResult {
	multi := MultiResult{Passed: true, Results: make(map[string]Result, len(shieldIDs))}
	for _, id := range shieldIDs {
		r := Run(ctx, c, content, id, timeout)
		multi.Results[id] = r
		if !r.Passed {
			multi.Passed = false
		}
	}
	return multi
}
