// Package consistency checks that a specialist agent's declared score
// matches its stated reasoning. A cheap rule-based tier always runs; a
// deeper semantic tier delegated to an external judge is optional per
// run because it adds latency and cost.
package consistency

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Verdict is the outcome of a consistency check.
type Verdict struct {
	Passed bool   `json:"passed"`
	Reason string `json:"reason"`
}

var scoreRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*10`)

// Phrase vocabularies for the heuristic tier. Strongly directional
// language that contradicts the declared score is the manipulation
// signal.
var (
	negativeSignals = []string{
		"critical risk", "major concern", "not viable", "highly unlikely", "fatal flaw",
	}
	positiveSignals = []string{
		"excellent", "outstanding", "exceptional", "no significant risk", "very strong",
	}
)

const (
	highScoreFloor    = 8.0
	lowScoreCeiling   = 3.0
	contradictSignals = 2
)

// ExtractScore returns the first N/10 score in the output.
func ExtractScore(output string) (float64, bool) {
	m := scoreRe.FindStringSubmatch(output)
	if m == nil {
		return 0, false
	}
	score, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return score, true
}

// CheckHeuristic is the fast, local, rule-based tier. No score in N/10
// form is itself a fail. A high score with two or more strongly
// negative phrases, or a low score with two or more strongly positive
// phrases, is a fail citing the count.
func CheckHeuristic(output string) Verdict {
	score, found := ExtractScore(output)
	if !found {
		return Verdict{Passed: false, Reason: "no score in N/10 format found"}
	}

	lower := strings.ToLower(output)

	if score >= highScoreFloor {
		if n := countSignals(lower, negativeSignals); n >= contradictSignals {
			return Verdict{
				Passed: false,
				Reason: fmt.Sprintf("score %g/10 but found %d strongly negative signals (threshold: %d)",
					score, n, contradictSignals),
			}
		}
	}

	if score <= lowScoreCeiling {
		if n := countSignals(lower, positiveSignals); n >= contradictSignals {
			return Verdict{
				Passed: false,
				Reason: fmt.Sprintf("score %g/10 but found %d strongly positive signals (threshold: %d)",
					score, n, contradictSignals),
			}
		}
	}

	return Verdict{Passed: true, Reason: "ok"}
}

func countSignals(lower string, signals []string) int {
	n := 0
	for _, s := range signals {
		if strings.Contains(lower, s) {
			n++
		}
	}
	return n
}

// Judge is the external semantic validator. It returns a single-line
// verdict: "PASS" or "FAIL:<reason>".
type Judge interface {
	Validate(ctx context.Context, agentName, output string) (string, error)
}

// ParseJudgeVerdict normalizes a judge reply. Anything other than a
// PASS or FAIL line is an implicit fail carrying the raw text.
func ParseJudgeVerdict(reply string) Verdict {
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, "PASS") {
		return Verdict{Passed: true, Reason: "ok"}
	}
	if rest, ok := strings.CutPrefix(reply, "FAIL:"); ok {
		return Verdict{Passed: false, Reason: strings.TrimSpace(rest)}
	}
	return Verdict{Passed: false, Reason: reply}
}

// Validator runs the two-tier consistency check.
type Validator struct {
	judge    Judge
	semantic bool
}

// NewValidator creates a Validator. The semantic tier runs only when a
// judge is supplied and enabled.
func NewValidator(judge Judge, semantic bool) *Validator {
	return &Validator{judge: judge, semantic: semantic && judge != nil}
}

// Validate checks a specialist's output. The heuristic tier always
// runs; when it passes and the semantic tier is enabled, the judge has
// the final word. A judge error fails closed.
func (v *Validator) Validate(ctx context.Context, agentName, output string) Verdict {
	verdict := CheckHeuristic(output)
	if !verdict.Passed || !v.semantic {
		return verdict
	}

	reply, err := v.judge.Validate(ctx, agentName, output)
	if err != nil {
		return Verdict{Passed: false, Reason: fmt.Sprintf("semantic check failed closed: %v", err)}
	}
	return ParseJudgeVerdict(reply)
}
