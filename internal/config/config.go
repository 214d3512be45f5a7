// Package config loads the static agentgate configuration: the agent
// registry, tool tiers and schemas, gateway limits, alert thresholds,
// and shield settings. Configuration is read once at startup and the
// resulting structures are shared read-only; reload is not supported.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/evalsec/agentgate/internal/alerting"
	"github.com/evalsec/agentgate/internal/governance"
	"github.com/evalsec/agentgate/internal/registry"
)

// ToolsConfig declares governance tiers and per-tool parameter
// schemas.
type ToolsConfig struct {
	Tiers   governance.Tiers             `yaml:"tiers"`
	Schemas map[string]governance.Schema `yaml:"schemas"`
}

// GatewayConfig sets the inbound rate limiter.
type GatewayConfig struct {
	RateLimitCapacity   int     `yaml:"rate_limit_capacity"`
	RateLimitRefillRate float64 `yaml:"rate_limit_refill_rate"`
}

// AlertsConfig sets alert thresholds and optional webhook delivery.
type AlertsConfig struct {
	Thresholds alerting.Thresholds      `yaml:"thresholds"`
	Webhooks   []alerting.WebhookConfig `yaml:"webhooks"`
}

// ShieldsConfig points at the external safety service.
type ShieldsConfig struct {
	Endpoint string        `yaml:"endpoint"`
	IDs      []string      `yaml:"ids"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Config is the full static configuration.
type Config struct {
	Agents  map[string]*registry.AgentRecord `yaml:"agents"`
	Tools   ToolsConfig                      `yaml:"tools"`
	Gateway GatewayConfig                    `yaml:"gateway"`
	Alerts  AlertsConfig                     `yaml:"alerts"`
	Shields ShieldsConfig                    `yaml:"shields"`
}

// Default returns the built-in configuration used on the zero-config
// dev path.
func Default() *Config {
	return &Config{
		Agents: map[string]*registry.AgentRecord{
			"coordinator": {
				Role:          "orchestrator",
				Description:   "plans the evaluation and merges specialist reports",
				AllowedModels: []string{"llama3.1:8b"},
			},
			"market": {
				Role:          "specialist",
				Description:   "market sizing and competitive landscape",
				AllowedModels: []string{"llama3.2:3b"},
				AllowedTools:  []string{"search_comparables"},
			},
			"finance": {
				Role:          "specialist",
				Description:   "unit economics and funding requirements",
				AllowedModels: []string{"llama3.2:3b"},
				AllowedTools:  []string{"calculator"},
			},
			"tech": {
				Role:          "specialist",
				Description:   "technical feasibility and build complexity",
				AllowedModels: []string{"llama3.2:3b"},
				AllowedTools:  []string{"complexity_estimate"},
			},
			"risk": {
				Role:          "specialist",
				Description:   "regulatory and execution risk",
				AllowedModels: []string{"llama3.2:3b"},
				AllowedTools:  []string{"risk_checklist"},
			},
			"validator": {
				Role:          "validator",
				Description:   "semantic consistency checks on specialist output",
				AllowedModels: []string{"llama3.2:3b"},
			},
		},
		Tools: ToolsConfig{
			Tiers: governance.Tiers{
				Approved:    []string{"calculator", "complexity_estimate"},
				Conditional: []string{"search_comparables", "risk_checklist"},
				Blocked:     []string{"shell_exec", "file_write", "http_post"},
			},
			Schemas: map[string]governance.Schema{
				"calculator": {
					Required: []string{"expression"},
					Params: map[string]governance.ParamSchema{
						"expression": {Type: governance.TypeString},
					},
				},
				"search_comparables": {
					Required: []string{"sector"},
					Params: map[string]governance.ParamSchema{
						"sector": {
							Type:    governance.TypeString,
							Allowed: []string{"fintech", "healthtech", "saas", "marketplace", "deeptech"},
						},
						"limit": {Type: governance.TypeNumber},
					},
				},
				"risk_checklist": {
					Required: []string{"domain"},
					Params: map[string]governance.ParamSchema{
						"domain": {Type: governance.TypeString},
					},
				},
				"complexity_estimate": {
					Required: []string{"description"},
					Params: map[string]governance.ParamSchema{
						"description": {Type: governance.TypeString},
					},
				},
			},
		},
		Gateway: GatewayConfig{
			RateLimitCapacity:   5,
			RateLimitRefillRate: 0.1,
		},
		Alerts: AlertsConfig{
			Thresholds: alerting.DefaultThresholds(),
		},
		Shields: ShieldsConfig{
			IDs:     []string{"prompt-guard"},
			Timeout: 10 * time.Second,
		},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".agentgate", "config.yaml")
}

// Load reads configuration from a YAML file. An empty path falls back
// to the default location, and a missing file there falls back to the
// built-in defaults. An explicitly named file that is missing or
// malformed is an error: startup config problems are fatal, never
// silently defaulted.
func Load(path string) (*Config, error) {
	cfg, _, err := LoadWithHash(path)
	return cfg, err
}

// LoadWithHash additionally returns the SHA-256 of the raw YAML bytes,
// so a run can record exactly which configuration governed it. The
// hash of the built-in defaults is the hash of empty input.
func LoadWithHash(path string) (*Config, string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return defaultWithHash()
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return defaultWithHash()
		}
		return nil, "", fmt.Errorf("config: read %s: %w", path, err)
	}

	h := sha256.Sum256(data)
	hash := "sha256:" + hex.EncodeToString(h[:])

	// Start with defaults; YAML overwrites only specified sections.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, hash, nil
}

func defaultWithHash() (*Config, string, error) {
	h := sha256.Sum256(nil)
	return Default(), "sha256:" + hex.EncodeToString(h[:]), nil
}

// Validate rejects configurations that cannot be enforced coherently.
func (c *Config) Validate() error {
	if len(c.Agents) == 0 {
		return fmt.Errorf("config: no agents registered")
	}
	if c.Gateway.RateLimitCapacity < 1 {
		return fmt.Errorf("config: gateway rate_limit_capacity must be >= 1")
	}
	if c.Gateway.RateLimitRefillRate < 0 {
		return fmt.Errorf("config: gateway rate_limit_refill_rate must not be negative")
	}
	// Tier exclusivity is enforced by governance.New; surface it here
	// so a bad file fails at load, not first use.
	if _, err := governance.New(c.Tools.Tiers); err != nil {
		return err
	}
	return nil
}

// Registry builds the immutable agent registry.
func (c *Config) Registry() *registry.Registry {
	return registry.New(c.Agents)
}

// Governance builds the tool tier checker. Validate must have passed.
func (c *Config) Governance() (*governance.Governance, error) {
	return governance.New(c.Tools.Tiers)
}

// Validator builds the tool parameter validator.
func (c *Config) Validator() *governance.Validator {
	return governance.NewValidator(c.Tools.Schemas)
}
