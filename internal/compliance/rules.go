// Package compliance derives coverage of the FINOS AI mitigation
// taxonomy from an audit trail. The taxonomy is fixed and external;
// report generation is a read-only walk over the entries.
package compliance

// Rule maps one mitigation to the audit layers and categories that
// demonstrate it. A "*" entry matches anything.
type Rule struct {
	ID         string
	Name       string
	Phase      string
	Layers     []string
	Categories []string
}

// Mitigations is the fixed taxonomy, in report order.
var Mitigations = []Rule{
	{
		ID: "MI-1", Name: "Data Leakage Prevention", Phase: "10",
		Layers:     []string{"5-Model", "7-Security"},
		Categories: []string{"sanitization", "shield"},
	},
	{
		ID: "MI-3", Name: "Firewalling", Phase: "7, 9",
		Layers:     []string{"1-Input", "7-Security"},
		Categories: []string{"validation", "shield"},
	},
	{
		ID: "MI-4", Name: "AI System Observability", Phase: "12",
		Layers:     []string{"*"},
		Categories: []string{"*"},
	},
	{
		ID: "MI-5", Name: "Acceptance Testing", Phase: "13",
		Layers:     []string{"9-Output"},
		Categories: []string{"scoring"},
	},
	{
		ID: "MI-6", Name: "Data Classification", Phase: "10",
		Layers:     []string{"5-Model"},
		Categories: []string{"sanitization"},
	},
	{
		ID: "MI-7", Name: "Legal Frameworks", Phase: "15",
		Layers:     []string{"*"},
		Categories: []string{"*"},
	},
	{
		ID: "MI-8", Name: "QoS/DDoS Protection", Phase: "7",
		Layers:     []string{"1-Input"},
		Categories: []string{"validation"},
	},
	{
		ID: "MI-9", Name: "Alerting", Phase: "12",
		Layers:     []string{"*"},
		Categories: []string{"*"},
	},
	{
		ID: "MI-13", Name: "Citations", Phase: "15",
		Layers:     []string{"*"},
		Categories: []string{"*"},
	},
	{
		ID: "MI-14", Name: "Encryption at Rest", Phase: "14",
		Layers:     []string{"3-Agent"},
		Categories: []string{"encryption"},
	},
	{
		ID: "MI-15", Name: "LLM-as-Judge", Phase: "13",
		Layers:     []string{"9-Output"},
		Categories: []string{"scoring"},
	},
	{
		ID: "MI-17", Name: "AI Firewall", Phase: "8",
		Layers:     []string{"2-Orchestration"},
		Categories: []string{"policy"},
	},
	{
		ID: "MI-18", Name: "Agent Least Privilege", Phase: "8",
		Layers:     []string{"2-Orchestration"},
		Categories: []string{"policy"},
	},
	{
		ID: "MI-19", Name: "Tool Chain Validation", Phase: "11",
		Layers:     []string{"4-Tools"},
		Categories: []string{"governance"},
	},
	{
		ID: "MI-20", Name: "Tool Registry Governance", Phase: "11",
		Layers:     []string{"4-Tools"},
		Categories: []string{"governance", "registration"},
	},
	{
		ID: "MI-21", Name: "Explainability", Phase: "13, 15",
		Layers:     []string{"9-Output"},
		Categories: []string{"scoring"},
	},
	{
		ID: "MI-22", Name: "Agent Isolation", Phase: "9, 14",
		Layers:     []string{"3-Agent", "7-Security"},
		Categories: []string{"shield", "encryption"},
	},
}

func matchOne(value string, filter []string) bool {
	for _, f := range filter {
		if f == "*" || f == value {
			return true
		}
	}
	return false
}
