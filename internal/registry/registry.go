// Package registry is the static directory of agent identities and
// their permitted capability sets. Records are built once at config
// load and never mutated, so concurrent reads need no locking.
package registry

import "sort"

// AgentRecord is a registered agent's metadata and permissions.
// The allowed sets are the sole source of truth for policy decisions;
// no implicit fallback permissions exist.
type AgentRecord struct {
	Name          string   `yaml:"-" json:"name"`
	Role          string   `yaml:"role" json:"role"`
	Description   string   `yaml:"description" json:"description"`
	AllowedModels []string `yaml:"allowed_models" json:"allowed_models"`
	AllowedTools  []string `yaml:"allowed_tools" json:"allowed_tools"`
}

// AllowsTool reports whether the tool is in the agent's allow-set.
func (r *AgentRecord) AllowsTool(tool string) bool {
	for _, t := range r.AllowedTools {
		if t == tool {
			return true
		}
	}
	return false
}

// AllowsModel reports whether the model is in the agent's allow-set.
func (r *AgentRecord) AllowsModel(model string) bool {
	for _, m := range r.AllowedModels {
		if m == model {
			return true
		}
	}
	return false
}

// Registry maps agent names to their records.
type Registry struct {
	agents map[string]*AgentRecord
}

// New creates a Registry from a name→record map. The record's Name
// field is filled from the map key.
func New(agents map[string]*AgentRecord) *Registry {
	if agents == nil {
		agents = make(map[string]*AgentRecord)
	}
	for name, rec := range agents {
		rec.Name = name
	}
	return &Registry{agents: agents}
}

// Lookup returns the record for the given agent name, or nil if the
// agent is not registered.
func (r *Registry) Lookup(name string) *AgentRecord {
	return r.agents[name]
}

// IsRegistered reports whether the agent name exists in the registry.
func (r *Registry) IsRegistered(name string) bool {
	_, ok := r.agents[name]
	return ok
}

// List returns all records sorted by agent name.
func (r *Registry) List() []*AgentRecord {
	out := make([]*AgentRecord, 0, len(r.agents))
	for _, rec := range r.agents {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
