package consistency

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExtractScore(t *testing.T) {
	cases := []struct {
		output string
		score  float64
		found  bool
	}{
		{"Score: 7/10", 7, true},
		{"I rate this 8.5 / 10 overall", 8.5, true},
		{"First 3/10 then 9/10", 3, true},
		{"no score here", 0, false},
		{"ratio 3/4 is not a score", 0, false},
	}
	for _, c := range cases {
		score, found := ExtractScore(c.output)
		if found != c.found || score != c.score {
			t.Errorf("ExtractScore(%q) = %g, %v; want %g, %v", c.output, score, found, c.score, c.found)
		}
	}
}

func TestHeuristicFailsWithoutScore(t *testing.T) {
	v := CheckHeuristic("This venture looks promising overall.")
	if v.Passed {
		t.Fatal("output without a score must fail")
	}
	if v.Reason != "no score in N/10 format found" {
		t.Errorf("Reason = %q", v.Reason)
	}
}

func TestHeuristicDetectsHighScoreContradiction(t *testing.T) {
	output := "Churn is a critical risk, the burn rate is a major concern, " +
		"and the current pricing is not viable. Score: 9/10"
	v := CheckHeuristic(output)
	if v.Passed {
		t.Fatal("high score with negative reasoning must fail")
	}
	if !strings.Contains(v.Reason, "score 9/10") || !strings.Contains(v.Reason, "3 strongly negative signals") {
		t.Errorf("Reason = %q", v.Reason)
	}
}

func TestHeuristicDetectsLowScoreContradiction(t *testing.T) {
	output := "The team is excellent and the traction is outstanding. Score: 2/10"
	v := CheckHeuristic(output)
	if v.Passed {
		t.Fatal("low score with positive reasoning must fail")
	}
	if !strings.Contains(v.Reason, "strongly positive signals") {
		t.Errorf("Reason = %q", v.Reason)
	}
}

func TestHeuristicSingleSignalPasses(t *testing.T) {
	v := CheckHeuristic("Churn is a critical risk but everything else is solid. Score: 9/10")
	if !v.Passed {
		t.Fatalf("one contradicting signal is below threshold: %q", v.Reason)
	}
}

func TestHeuristicMidScoreIgnoresSignals(t *testing.T) {
	output := "Critical risk in churn, major concern on margins, not viable as priced. Score: 5/10"
	v := CheckHeuristic(output)
	if !v.Passed {
		t.Fatalf("mid-range score is exempt from contradiction checks: %q", v.Reason)
	}
}

func TestHeuristicBoundaryScores(t *testing.T) {
	negative := "critical risk and a major concern throughout."
	if v := CheckHeuristic(negative + " Score: 8/10"); v.Passed {
		t.Error("score 8 is inside the high band")
	}
	if v := CheckHeuristic(negative + " Score: 7.9/10"); !v.Passed {
		t.Error("score 7.9 is outside the high band")
	}

	positive := "excellent team with outstanding traction."
	if v := CheckHeuristic(positive + " Score: 3/10"); v.Passed {
		t.Error("score 3 is inside the low band")
	}
	if v := CheckHeuristic(positive + " Score: 3.1/10"); !v.Passed {
		t.Error("score 3.1 is outside the low band")
	}
}

func TestHeuristicIsCaseInsensitive(t *testing.T) {
	v := CheckHeuristic("CRITICAL RISK everywhere and a MAJOR CONCERN. Score: 9/10")
	if v.Passed {
		t.Fatal("signal matching must be case-insensitive")
	}
}

func TestParseJudgeVerdict(t *testing.T) {
	cases := []struct {
		reply  string
		passed bool
		reason string
	}{
		{"PASS", true, "ok"},
		{"  PASS\n", true, "ok"},
		{"FAIL: score contradicts reasoning", false, "score contradicts reasoning"},
		{"FAIL:missing rationale", false, "missing rationale"},
		{"the output looks fine to me", false, "the output looks fine to me"},
	}
	for _, c := range cases {
		v := ParseJudgeVerdict(c.reply)
		if v.Passed != c.passed || v.Reason != c.reason {
			t.Errorf("ParseJudgeVerdict(%q) = %+v, want passed=%v reason=%q", c.reply, v, c.passed, c.reason)
		}
	}
}

type fakeJudge struct {
	reply string
	err   error
	calls int
}

func (j *fakeJudge) Validate(ctx context.Context, agentName, output string) (string, error) {
	j.calls++
	return j.reply, j.err
}

func TestValidatorSemanticTierRunsAfterHeuristicPass(t *testing.T) {
	judge := &fakeJudge{reply: "FAIL: reasoning does not support the score"}
	v := NewValidator(judge, true)

	verdict := v.Validate(context.Background(), "market", "Solid fundamentals. Score: 7/10")
	if verdict.Passed {
		t.Fatal("judge fail must override heuristic pass")
	}
	if judge.calls != 1 {
		t.Errorf("judge calls = %d, want 1", judge.calls)
	}
}

func TestValidatorSkipsJudgeOnHeuristicFail(t *testing.T) {
	judge := &fakeJudge{reply: "PASS"}
	v := NewValidator(judge, true)

	verdict := v.Validate(context.Background(), "market", "no score at all")
	if verdict.Passed {
		t.Fatal("heuristic fail is final")
	}
	if judge.calls != 0 {
		t.Errorf("judge must not be consulted after heuristic fail, calls = %d", judge.calls)
	}
}

func TestValidatorJudgeErrorFailsClosed(t *testing.T) {
	judge := &fakeJudge{err: errors.New("judge unavailable")}
	v := NewValidator(judge, true)

	verdict := v.Validate(context.Background(), "market", "Fine overall. Score: 6/10")
	if verdict.Passed {
		t.Fatal("judge error must fail closed")
	}
	if !strings.Contains(verdict.Reason, "failed closed") {
		t.Errorf("Reason = %q", verdict.Reason)
	}
}

func TestValidatorSemanticDisabled(t *testing.T) {
	judge := &fakeJudge{reply: "FAIL: should never run"}
	v := NewValidator(judge, false)

	verdict := v.Validate(context.Background(), "market", "Fine overall. Score: 6/10")
	if !verdict.Passed {
		t.Fatalf("heuristic pass with semantic tier disabled must pass: %q", verdict.Reason)
	}
	if judge.calls != 0 {
		t.Errorf("judge calls = %d, want 0", judge.calls)
	}
}

func TestValidatorNilJudgeDisablesSemanticTier(t *testing.T) {
	v := NewValidator(nil, true)
	verdict := v.Validate(context.Background(), "market", "Fine overall. Score: 6/10")
	if !verdict.Passed {
		t.Fatalf("nil judge must disable the semantic tier: %q", verdict.Reason)
	}
}
