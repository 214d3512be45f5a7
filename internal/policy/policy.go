// Package policy authorizes agent→tool and agent→model calls against
// the agent registry. Checks are pure lookups: deny unless explicitly
// allowed, no retries, no side effects.
package policy

import (
	"fmt"

	"github.com/evalsec/agentgate/internal/registry"
)

// Decision is the outcome of one policy check.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// Engine evaluates whether an agent may use a given tool or model.
type Engine struct {
	registry *registry.Registry
}

// NewEngine creates an Engine backed by the given registry.
func NewEngine(reg *registry.Registry) *Engine {
	return &Engine{registry: reg}
}

// CheckTool reports whether the agent may invoke the named tool.
// An unknown agent yields a denial, not an error.
func (e *Engine) CheckTool(agentName, toolName string) Decision {
	rec := e.registry.Lookup(agentName)
	if rec == nil {
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("agent %q is not registered", agentName),
		}
	}
	if !rec.AllowsTool(toolName) {
		return Decision{
			Allowed: false,
			Reason: fmt.Sprintf("agent %q is not allowed to use tool %q, allowed tools: %v",
				agentName, toolName, rec.AllowedTools),
		}
	}
	return Decision{Allowed: true, Reason: "ok"}
}

// CheckModel reports whether the agent may invoke the named model.
func (e *Engine) CheckModel(agentName, modelID string) Decision {
	rec := e.registry.Lookup(agentName)
	if rec == nil {
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("agent %q is not registered", agentName),
		}
	}
	if !rec.AllowsModel(modelID) {
		return Decision{
			Allowed: false,
			Reason: fmt.Sprintf("agent %q is not allowed to use model %q, allowed models: %v",
				agentName, modelID, rec.AllowedModels),
		}
	}
	return Decision{Allowed: true, Reason: "ok"}
}
