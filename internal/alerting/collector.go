// Package alerting accumulates counts across one pipeline run and
// raises threshold alerts at the end. A Collector is owned by a single
// run, like the run's audit trail.
package alerting

import (
	"fmt"
	"strings"
	"sync"

	"github.com/evalsec/agentgate/internal/model"
)

// Alert is one triggered rule. Produced only by Evaluate, never
// persisted independently of the run.
type Alert struct {
	Rule     string         `json:"rule"`
	Severity model.Severity `json:"severity"`
	Message  string         `json:"message"`
}

// Thresholds configures the alert rules. All are inclusive: reaching
// the threshold triggers.
type Thresholds struct {
	ShieldViolations int     `yaml:"shield_violation_threshold"`
	PolicyDenials    int     `yaml:"policy_denial_threshold"`
	LowScore         float64 `yaml:"low_score_threshold"`
}

// DefaultThresholds returns the built-in alert thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ShieldViolations: 2,
		PolicyDenials:    3,
		LowScore:         3.0,
	}
}

// Collector records shield, policy, and score events for one run.
// Updates are O(1) counter mutations, safe under concurrent stages.
type Collector struct {
	thresholds Thresholds

	mu               sync.Mutex
	shieldViolations int
	policyDenials    int
	lowScoreAgents   []string
}

// NewCollector creates a Collector with the given thresholds.
func NewCollector(thresholds Thresholds) *Collector {
	return &Collector{thresholds: thresholds}
}

// RecordShieldResult counts a failed shield check.
func (c *Collector) RecordShieldResult(agentName string, passed bool) {
	if passed {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shieldViolations++
}

// RecordPolicyDecision counts a policy denial.
func (c *Collector) RecordPolicyDecision(agentName string, allowed bool) {
	if allowed {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policyDenials++
}

// RecordScore notes agents scoring at or below the low-score threshold.
func (c *Collector) RecordScore(agentName string, score float64) {
	if score > c.thresholds.LowScore {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range c.lowScoreAgents {
		if name == agentName {
			return
		}
	}
	c.lowScoreAgents = append(c.lowScoreAgents, agentName)
}

// Evaluate compares the accumulated counters against the thresholds
// and returns at most one alert per rule. Idempotent: calling it twice
// with no new recordings yields identical alerts.
func (c *Collector) Evaluate() []Alert {
	c.mu.Lock()
	defer c.mu.Unlock()

	var alerts []Alert

	if c.shieldViolations >= c.thresholds.ShieldViolations {
		alerts = append(alerts, Alert{
			Rule:     "shield_violations",
			Severity: model.SeverityCritical,
			Message: fmt.Sprintf("%d shield violations detected (threshold: %d)",
				c.shieldViolations, c.thresholds.ShieldViolations),
		})
	}

	if c.policyDenials >= c.thresholds.PolicyDenials {
		alerts = append(alerts, Alert{
			Rule:     "policy_denials",
			Severity: model.SeverityWarn,
			Message: fmt.Sprintf("%d policy denials detected (threshold: %d)",
				c.policyDenials, c.thresholds.PolicyDenials),
		})
	}

	if len(c.lowScoreAgents) > 0 {
		alerts = append(alerts, Alert{
			Rule:     "low_scores",
			Severity: model.SeverityInfo,
			Message: fmt.Sprintf("low scores (<=%g) from: %s",
				c.thresholds.LowScore, strings.Join(c.lowScoreAgents, ", ")),
		})
	}

	return alerts
}
