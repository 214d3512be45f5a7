package model

import (
	"errors"
	"strings"
	"testing"
)

func TestOutcomeFor(t *testing.T) {
	if OutcomeFor(true) != OutcomePass {
		t.Error("OutcomeFor(true) != pass")
	}
	if OutcomeFor(false) != OutcomeFail {
		t.Error("OutcomeFor(false) != fail")
	}
}

func TestViolationErrorMessage(t *testing.T) {
	err := &ViolationError{
		Stage:   "shield:market",
		Reason:  "content failed safety shield",
		Details: []string{"prompt-guard: unsafe", "llama-guard: suspicious"},
	}
	msg := err.Error()
	if !strings.Contains(msg, "shield:market") || !strings.Contains(msg, "2 findings") {
		t.Errorf("Error() = %q", msg)
	}

	bare := &ViolationError{Stage: "shield:user", Reason: "blocked"}
	if strings.Contains(bare.Error(), "findings") {
		t.Errorf("Error() = %q, want no findings count", bare.Error())
	}
}

func TestViolationErrorUnwrapsWithAs(t *testing.T) {
	var wrapped error = &ViolationError{Stage: "shield:user", Reason: "blocked"}

	var v *ViolationError
	if !errors.As(wrapped, &v) {
		t.Fatal("errors.As must match *ViolationError")
	}
	if v.Stage != "shield:user" {
		t.Errorf("Stage = %q", v.Stage)
	}
}
