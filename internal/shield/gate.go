package shield

import (
	"context"
	"sort"
	"time"

	"github.com/evalsec/agentgate/internal/alerting"
	"github.com/evalsec/agentgate/internal/audit"
	"github.com/evalsec/agentgate/internal/model"
)

// Gate is the insertion point at every agent-to-agent handoff and at
// the original user input. Content must pass every configured shield
// before it reaches the next stage; failure is a hard stop, not an
// ordinary denial.
type Gate struct {
	classifier Classifier
	shieldIDs  []string
	timeout    time.Duration
}

// NewGate creates a Gate running the given shields through the
// classifier. A zero timeout disables the per-call bound.
func NewGate(c Classifier, shieldIDs []string, timeout time.Duration) *Gate {
	return &Gate{classifier: c, shieldIDs: shieldIDs, timeout: timeout}
}

// Check runs every shield over the content, records each result in the
// trail and collector, and returns a ViolationError when any shield
// fails. Audit entries are written after each shield completes, so a
// timed-out call never leaves an entry implying success.
func (g *Gate) Check(ctx context.Context, agentName, content string, trail *audit.Trail, collector *alerting.Collector) (MultiResult, error) {
	multi := MultiResult{Passed: true, Results: make(map[string]Result, len(g.shieldIDs))}

	for _, id := range g.shieldIDs {
		r := Run(ctx, g.classifier, content, id, g.timeout)
		multi.Results[id] = r
		if !r.Passed {
			multi.Passed = false
		}
		if trail != nil {
			trail.RecordShield(id, agentName, r.Passed, r.Message)
		}
		if collector != nil {
			collector.RecordShieldResult(agentName, r.Passed)
		}
	}

	if multi.Passed {
		return multi, nil
	}

	violations := multi.Violations()
	details := make([]string, 0, len(violations))
	for id, r := range violations {
		details = append(details, id+": "+r.Message)
	}
	sort.Strings(details)

	return multi, &model.ViolationError{
		Stage:   "shield:" + agentName,
		Reason:  "content failed safety shield",
		Details: details,
	}
}
