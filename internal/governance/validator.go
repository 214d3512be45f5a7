package governance

import (
	"fmt"
	"sort"
	"strconv"
)

// ParamType is the closed set of parameter value types a schema may declare.
type ParamType string

const (
	TypeNumber ParamType = "number"
	TypeString ParamType = "string"
)

// ParamSchema constrains one declared parameter.
type ParamSchema struct {
	Type    ParamType `yaml:"type"`
	Allowed []string  `yaml:"allowed"`
}

// Schema declares the parameter contract for one tool.
type Schema struct {
	Required []string               `yaml:"required"`
	Params   map[string]ParamSchema `yaml:"params"`
}

// ValidationResult carries every violation found in one call, not just
// the first.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validator checks tool parameters against declared schemas.
type Validator struct {
	schemas map[string]Schema
}

// NewValidator creates a Validator from a tool→schema map.
func NewValidator(schemas map[string]Schema) *Validator {
	if schemas == nil {
		schemas = make(map[string]Schema)
	}
	return &Validator{schemas: schemas}
}

// Validate checks the parameters for a tool call. A tool without a
// declared schema is always valid: tools without contracts are not
// silently broken.
func (v *Validator) Validate(toolName string, params map[string]any) ValidationResult {
	schema, ok := v.schemas[toolName]
	if !ok {
		return ValidationResult{Valid: true}
	}

	var errs []string

	for _, req := range schema.Required {
		if _, present := params[req]; !present {
			errs = append(errs, fmt.Sprintf("missing required parameter: %q", req))
		}
	}

	// Sorted so the error list is stable regardless of map order.
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := params[name]
		pschema, declared := schema.Params[name]
		if !declared {
			continue
		}

		switch pschema.Type {
		case TypeNumber:
			if !coercesToNumber(value) {
				errs = append(errs, fmt.Sprintf("parameter %q must be a number, got %v", name, value))
			}
		case TypeString:
			if _, isStr := value.(string); !isStr {
				errs = append(errs, fmt.Sprintf("parameter %q must be a string, got %T", name, value))
			}
		}

		if len(pschema.Allowed) > 0 && !inAllowed(value, pschema.Allowed) {
			errs = append(errs, fmt.Sprintf("parameter %q value %v not in allowed values: %v",
				name, value, pschema.Allowed))
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// coercesToNumber accepts native numeric values and strings that parse
// as numbers.
func coercesToNumber(v any) bool {
	switch n := v.(type) {
	case int, int32, int64, float32, float64:
		return true
	case string:
		_, err := strconv.ParseFloat(n, 64)
		return err == nil
	default:
		return false
	}
}

// inAllowed compares the value's string form against the allowed set.
func inAllowed(v any, allowed []string) bool {
	s := fmt.Sprint(v)
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}
