package governance

import (
	"strings"
	"testing"
)

func testValidator() *Validator {
	return NewValidator(map[string]Schema{
		"search_comparables": {
			Required: []string{"sector"},
			Params: map[string]ParamSchema{
				"sector": {Type: TypeString, Allowed: []string{"fintech", "healthtech", "saas"}},
				"limit":  {Type: TypeNumber},
			},
		},
	})
}

func TestValidateNoSchemaIsPermissive(t *testing.T) {
	result := testValidator().Validate("calculator", map[string]any{"expression": 42})
	if !result.Valid {
		t.Fatalf("tool without schema must validate, got errors: %v", result.Errors)
	}
}

func TestValidateMissingRequiredParameter(t *testing.T) {
	result := testValidator().Validate("search_comparables", map[string]any{"limit": 5})
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], `missing required parameter: "sector"`) {
		t.Errorf("Errors = %v", result.Errors)
	}
}

func TestValidateAllowedValues(t *testing.T) {
	result := testValidator().Validate("search_comparables", map[string]any{"sector": "gambling"})
	if result.Valid {
		t.Fatal("expected invalid result for disallowed value")
	}
	if !strings.Contains(result.Errors[0], "not in allowed values") {
		t.Errorf("Errors = %v", result.Errors)
	}
}

func TestValidateNumberCoercion(t *testing.T) {
	v := testValidator()

	cases := []struct {
		value any
		valid bool
	}{
		{5, true},
		{5.5, true},
		{"12", true},
		{"3.14", true},
		{"twelve", false},
		{true, false},
	}
	for _, c := range cases {
		result := v.Validate("search_comparables", map[string]any{"sector": "saas", "limit": c.value})
		if result.Valid != c.valid {
			t.Errorf("limit=%v (%T): valid = %v, want %v (errors: %v)",
				c.value, c.value, result.Valid, c.valid, result.Errors)
		}
	}
}

func TestValidateStringType(t *testing.T) {
	result := testValidator().Validate("search_comparables", map[string]any{"sector": 7})
	if result.Valid {
		t.Fatal("expected invalid result for non-string sector")
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	result := testValidator().Validate("search_comparables", map[string]any{"limit": "many"})
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	// Missing sector and unparseable limit are both reported.
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(result.Errors), result.Errors)
	}
}

func TestValidateErrorOrderIsStable(t *testing.T) {
	v := testValidator()
	// Two violating parameters; map iteration order must not leak into
	// the error list.
	for i := 0; i < 20; i++ {
		result := v.Validate("search_comparables", map[string]any{
			"sector": 7,
			"limit":  "many",
		})
		if len(result.Errors) != 3 {
			t.Fatalf("expected 3 errors, got %v", result.Errors)
		}
		if !strings.Contains(result.Errors[0], `"limit"`) {
			t.Fatalf("Errors[0] = %q, want the limit violation first", result.Errors[0])
		}
		if !strings.Contains(result.Errors[1], "must be a string") {
			t.Fatalf("Errors[1] = %q, want the sector type violation", result.Errors[1])
		}
		if !strings.Contains(result.Errors[2], "not in allowed values") {
			t.Fatalf("Errors[2] = %q, want the sector allowed-set violation", result.Errors[2])
		}
	}
}

func TestValidateUndeclaredParametersPass(t *testing.T) {
	result := testValidator().Validate("search_comparables", map[string]any{
		"sector": "saas",
		"extra":  struct{}{},
	})
	if !result.Valid {
		t.Fatalf("undeclared parameter must not fail validation: %v", result.Errors)
	}
}
