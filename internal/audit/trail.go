// Package audit is the append-only, hash-chained ledger of every
// decision the governance layer makes during one pipeline run. Entries
// are immutable once appended; corrections are new entries. Each
// entry's prev_hash is the SHA-256 of the previous entry's JSON line,
// forming a tamper-evident chain.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/evalsec/agentgate/internal/model"
)

// GenesisHash is the prev_hash of the first entry in a new trail.
const GenesisHash = "sha256:0000000000000000000000000000000000000000000000000000000000000000"

// Canonical layer names. Fixed by the typed wrappers so the taxonomy is
// stable and not caller-chosen.
const (
	LayerInput         = "1-Input"
	LayerOrchestration = "2-Orchestration"
	LayerAgent         = "3-Agent"
	LayerTools         = "4-Tools"
	LayerModel         = "5-Model"
	LayerSecurity      = "7-Security"
	LayerOutput        = "9-Output"
)

// Entry is one line in the ledger.
// All fields are scalars (no map[string]any) to guarantee deterministic
// json.Marshal field order for reproducible hashing.
type Entry struct {
	Timestamp string        `json:"ts"`
	Layer     string        `json:"layer"`
	Category  string        `json:"category"`
	Action    string        `json:"action"`
	Detail    string        `json:"detail"`
	Outcome   model.Outcome `json:"outcome"`
	PrevHash  string        `json:"prev_hash"`
}

// Trail collects the entries for a single pipeline run. One Trail per
// run, owned by that run; appends from concurrent stages of the same
// run are serialized by the internal lock.
type Trail struct {
	EvaluationID string
	Subject      string
	StartedAt    string

	mu       sync.Mutex
	entries  []Entry
	lines    [][]byte // marshaled form of each entry, for export and chain verification
	prevHash string

	now func() time.Time // injectable for tests
}

// NewTrail creates an empty Trail for one pipeline run.
func NewTrail(evaluationID, subject string) *Trail {
	now := time.Now
	return &Trail{
		EvaluationID: evaluationID,
		Subject:      subject,
		StartedAt:    now().UTC().Format(model.TimestampFormat),
		prevHash:     GenesisHash,
		now:          now,
	}
}

// Record appends a generic entry to the trail and returns it with the
// chain fields filled in.
func (t *Trail) Record(layer, category, action, detail string, outcome model.Outcome) Entry {
	entry := Entry{
		Timestamp: t.now().UTC().Format(model.TimestampFormat),
		Layer:     layer,
		Category:  category,
		Action:    action,
		Detail:    detail,
		Outcome:   outcome,
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entry.PrevHash = t.prevHash
	line, err := json.Marshal(entry)
	if err != nil {
		// Entry is scalar-only; marshal cannot fail on it. Guard anyway.
		line = []byte("{}")
	}
	t.entries = append(t.entries, entry)
	t.lines = append(t.lines, line)
	t.prevHash = HashLine(line)
	return entry
}

// Entries returns a copy of the recorded entries in append order.
func (t *Trail) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of recorded entries.
func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// HashLine returns "sha256:<hex>" of the given bytes.
func HashLine(line []byte) string {
	h := sha256.Sum256(line)
	return "sha256:" + hex.EncodeToString(h[:])
}

// Typed wrappers. Each fixes layer and category to the canonical value
// for its decision kind.

// RecordInputValidation records the inbound input check.
func (t *Trail) RecordInputValidation(passed bool, detail string) Entry {
	return t.Record(LayerInput, "validation", "input_check", detail, model.OutcomeFor(passed))
}

// RecordShield records one content-safety shield result.
func (t *Trail) RecordShield(shieldID, agentName string, passed bool, message string) Entry {
	return t.Record(LayerSecurity, "shield", "shield:"+shieldID,
		fmt.Sprintf("agent=%s message=%s", agentName, message), model.OutcomeFor(passed))
}

// RecordPolicy records a policy engine decision for a tool or model.
func (t *Trail) RecordPolicy(agentName, resource string, allowed bool, reason string) Entry {
	return t.Record(LayerOrchestration, "policy", "policy_check:"+resource,
		fmt.Sprintf("agent=%s reason=%s", agentName, reason), model.OutcomeFor(allowed))
}

// RecordToolGovernance records a tool tier decision.
func (t *Trail) RecordToolGovernance(toolName, tier string, allowed bool) Entry {
	return t.Record(LayerTools, "governance", "tool_check:"+toolName,
		"tier="+tier, model.OutcomeFor(allowed))
}

// RecordEvaluation records a specialist agent's score.
func (t *Trail) RecordEvaluation(agentName string, score float64) Entry {
	return t.Record(LayerAgent, "evaluation", "agent_score:"+agentName,
		fmt.Sprintf("score=%g/10", score), model.OutcomeInfo)
}

// RecordSanitization records a PII sanitization pass. Zero redactions
// is a pass; anything redacted is informational, not a failure.
func (t *Trail) RecordSanitization(redactionCount int, types []string) Entry {
	outcome := model.OutcomeInfo
	if redactionCount == 0 {
		outcome = model.OutcomePass
	}
	return t.Record(LayerModel, "sanitization", "pii_redaction",
		fmt.Sprintf("redacted=%d types=%v", redactionCount, types), outcome)
}

// RecordToolRegistration records the registration of an external tool
// server.
func (t *Trail) RecordToolRegistration(serverName, endpoint string, success bool) Entry {
	return t.Record(LayerTools, "registration", "tool_register:"+serverName,
		"endpoint="+endpoint, model.OutcomeFor(success))
}

// RecordOutputFilter records an output secret-scan result.
func (t *Trail) RecordOutputFilter(passed bool, detections int) Entry {
	return t.Record(LayerOutput, "filter", "secret_scan",
		fmt.Sprintf("detections=%d", detections), model.OutcomeFor(passed))
}

// RecordScoring records an LLM-as-judge score for one dimension.
func (t *Trail) RecordScoring(dimension string, score float64) Entry {
	return t.Record(LayerOutput, "scoring", "judge:"+dimension,
		fmt.Sprintf("score=%g", score), model.OutcomeInfo)
}

// RecordEncryption records a state encryption action (save or load).
func (t *Trail) RecordEncryption(evaluationID, action string) Entry {
	return t.Record(LayerAgent, "encryption", "state_"+action,
		"evaluation_id="+evaluationID, model.OutcomeInfo)
}
