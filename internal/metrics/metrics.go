// Package metrics exposes prometheus counters for the enforcement
// surfaces: inbound admission, policy decisions, and shield checks.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AdmissionsTotal       prometheus.Counter
	RejectionsTotal       prometheus.Counter
	PolicyDenialsTotal    prometheus.Counter
	ShieldViolationsTotal prometheus.Counter
}

// New registers the agentgate counters on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AdmissionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "agentgate_admissions_total",
			Help: "Total number of inbound requests admitted by the rate limiter",
		}),
		RejectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "agentgate_rejections_total",
			Help: "Total number of inbound requests rejected by the rate limiter",
		}),
		PolicyDenialsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "agentgate_policy_denials_total",
			Help: "Total number of agent capability checks denied by the policy engine",
		}),
		ShieldViolationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "agentgate_shield_violations_total",
			Help: "Total number of content-safety shield violations",
		}),
	}
}

func (m *Metrics) RecordAdmission(allowed bool) {
	if allowed {
		m.AdmissionsTotal.Inc()
	} else {
		m.RejectionsTotal.Inc()
	}
}

func (m *Metrics) RecordPolicyDenial() {
	m.PolicyDenialsTotal.Inc()
}

func (m *Metrics) RecordShieldViolation() {
	m.ShieldViolationsTotal.Inc()
}
