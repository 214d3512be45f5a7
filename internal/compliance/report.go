package compliance

import (
	"fmt"
	"strings"

	"github.com/evalsec/agentgate/internal/audit"
)

// Status is the derived coverage of one mitigation. Recomputed fresh
// on every report generation, never cached across runs.
type Status struct {
	MitigationID  string `json:"mitigation_id"`
	Name          string `json:"name"`
	Phase         string `json:"phase"`
	Covered       bool   `json:"covered"`
	EvidenceCount int    `json:"evidence_count"`
	Detail        string `json:"detail"`
}

// Report is the mitigation coverage derived from one trail.
type Report struct {
	EvaluationID string   `json:"evaluation_id"`
	Mitigations  []Status `json:"mitigations"`
	CoveragePct  float64  `json:"coverage_pct"`
}

// Generate walks the fixed taxonomy and marks each mitigation covered
// iff at least one entry matches both its layer filter and its
// category filter. An empty trail yields zero coverage.
func Generate(evaluationID string, entries []audit.Entry) Report {
	report := Report{EvaluationID: evaluationID}

	covered := 0
	for _, rule := range Mitigations {
		count := 0
		for _, e := range entries {
			if matchOne(e.Layer, rule.Layers) && matchOne(e.Category, rule.Categories) {
				count++
			}
		}

		detail := "no evidence in this run"
		if count > 0 {
			detail = fmt.Sprintf("%d audit entries", count)
			covered++
		}

		report.Mitigations = append(report.Mitigations, Status{
			MitigationID:  rule.ID,
			Name:          rule.Name,
			Phase:         rule.Phase,
			Covered:       count > 0,
			EvidenceCount: count,
			Detail:        detail,
		})
	}

	if len(report.Mitigations) > 0 {
		report.CoveragePct = float64(covered) / float64(len(report.Mitigations)) * 100
	}
	return report
}

// FromTrail generates the report for a live trail.
func FromTrail(trail *audit.Trail) Report {
	return Generate(trail.EvaluationID, trail.Entries())
}

// FormatTable renders the report as a fixed-width table with the
// overall coverage percentage.
func (r Report) FormatTable() string {
	covered := 0
	for _, m := range r.Mitigations {
		if m.Covered {
			covered++
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Compliance report: %s\n", r.EvaluationID))
	b.WriteString(fmt.Sprintf("Coverage: %.0f%% (%d/%d mitigations)\n",
		r.CoveragePct, covered, len(r.Mitigations)))
	b.WriteString(fmt.Sprintf("%-6s %-26s %-7s %-8s %-9s %s\n",
		"ID", "Name", "Phase", "Covered", "Evidence", "Detail"))
	for _, m := range r.Mitigations {
		yn := "no"
		if m.Covered {
			yn = "yes"
		}
		b.WriteString(fmt.Sprintf("%-6s %-26s %-7s %-8s %-9d %s\n",
			m.MitigationID, m.Name, m.Phase, yn, m.EvidenceCount, m.Detail))
	}
	return b.String()
}
