// Package governance gates tool execution: a three-tier classification
// answers whether a tool may run at all, and per-tool parameter schemas
// answer whether the supplied arguments are well-formed. Both checks run
// before any tool executes, tier first.
package governance

import (
	"fmt"
	"sort"
)

// Tier classifies a tool name under governance policy.
type Tier string

const (
	TierApproved    Tier = "approved"
	TierConditional Tier = "conditional"
	TierBlocked     Tier = "blocked"
	TierUnknown     Tier = "unknown"
)

// ToolDecision is the outcome of a tier check. Logged is set for
// conditional tools so the caller knows to audit the call regardless
// of its outcome.
type ToolDecision struct {
	Allowed bool   `json:"allowed"`
	Tier    Tier   `json:"tier"`
	Reason  string `json:"reason"`
	Logged  bool   `json:"logged"`
}

// Tiers is the tool tier configuration as declared in YAML.
type Tiers struct {
	Approved    []string `yaml:"approved"`
	Conditional []string `yaml:"conditional"`
	Blocked     []string `yaml:"blocked"`
}

// Governance holds the loaded tier sets.
type Governance struct {
	approved    map[string]bool
	conditional map[string]bool
	blocked     map[string]bool
}

// New builds a Governance from tier configuration. Tier membership must
// be mutually exclusive; overlapping configs are rejected at load rather
// than resolved by tie-break.
func New(tiers Tiers) (*Governance, error) {
	g := &Governance{
		approved:    toSet(tiers.Approved),
		conditional: toSet(tiers.Conditional),
		blocked:     toSet(tiers.Blocked),
	}
	for tool := range g.blocked {
		if g.approved[tool] || g.conditional[tool] {
			return nil, fmt.Errorf("governance: tool %q appears in more than one tier", tool)
		}
	}
	for tool := range g.conditional {
		if g.approved[tool] {
			return nil, fmt.Errorf("governance: tool %q appears in more than one tier", tool)
		}
	}
	return g, nil
}

// Check resolves a tool name to a governance decision. Blocked is an
// unconditional veto and is checked first; names in no tier resolve to
// unknown and are denied by default.
func (g *Governance) Check(toolName string) ToolDecision {
	if g.blocked[toolName] {
		return ToolDecision{
			Allowed: false,
			Tier:    TierBlocked,
			Reason:  fmt.Sprintf("tool %q is blocked by policy", toolName),
		}
	}
	if g.conditional[toolName] {
		return ToolDecision{
			Allowed: true,
			Tier:    TierConditional,
			Reason:  fmt.Sprintf("tool %q is conditionally allowed (logged)", toolName),
			Logged:  true,
		}
	}
	if g.approved[toolName] {
		return ToolDecision{
			Allowed: true,
			Tier:    TierApproved,
			Reason:  "ok",
		}
	}
	return ToolDecision{
		Allowed: false,
		Tier:    TierUnknown,
		Reason:  fmt.Sprintf("tool %q is not registered in governance policy", toolName),
	}
}

// ListTools returns the tier membership with each list sorted.
func (g *Governance) ListTools() map[Tier][]string {
	return map[Tier][]string{
		TierApproved:    sortedKeys(g.approved),
		TierConditional: sortedKeys(g.conditional),
		TierBlocked:     sortedKeys(g.blocked),
	}
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
