package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/evalsec/agentgate/internal/model"
)

// Summary is the derived roll-up of a trail.
type Summary struct {
	TotalEntries  int      `json:"total_entries"`
	Passes        int      `json:"passes"`
	Failures      int      `json:"failures"`
	LayersCovered []string `json:"layers_covered"`
}

// Document is the structured export form of a trail. Identical trail
// state always produces identical documents.
type Document struct {
	EvaluationID string  `json:"evaluation_id"`
	Subject      string  `json:"subject_description"`
	StartedAt    string  `json:"started_at"`
	Entries      []Entry `json:"entries"`
	Summary      Summary `json:"summary"`
}

// Summarize derives the entry counts and distinct layers touched.
func (t *Trail) Summarize() Summary {
	entries := t.Entries()
	s := Summary{TotalEntries: len(entries)}
	layers := make(map[string]bool)
	for _, e := range entries {
		switch e.Outcome {
		case model.OutcomePass:
			s.Passes++
		case model.OutcomeFail:
			s.Failures++
		}
		layers[e.Layer] = true
	}
	for l := range layers {
		s.LayersCovered = append(s.LayersCovered, l)
	}
	sort.Strings(s.LayersCovered)
	return s
}

// Export builds the structured document form of the trail.
func (t *Trail) Export() Document {
	return Document{
		EvaluationID: t.EvaluationID,
		Subject:      t.Subject,
		StartedAt:    t.StartedAt,
		Entries:      t.Entries(),
		Summary:      t.Summarize(),
	}
}

// ExportJSON renders the structured document as indented JSON.
func (t *Trail) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(t.Export(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("audit: marshal export: %w", err)
	}
	return data, nil
}

const separator = "──────────────────────────────────────────────────────────────────"

// FormatTable renders the trail as a human-readable table with a
// summary header. Pure derivation of the entries, same content for the
// same state.
func (t *Trail) FormatTable() string {
	entries := t.Entries()
	s := t.Summarize()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Evaluation: %s | %s\n", t.EvaluationID, t.Subject))
	b.WriteString(fmt.Sprintf("Started: %s | %d entries, %d pass, %d fail | Layers: %s\n",
		t.StartedAt, s.TotalEntries, s.Passes, s.Failures, strings.Join(s.LayersCovered, ", ")))
	b.WriteString(FormatEntries(entries))
	return b.String()
}

// FormatEntries renders entries as fixed-width rows between separators.
func FormatEntries(entries []Entry) string {
	var b strings.Builder
	b.WriteString(separator + "\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%-10s %-16s %-13s %-28s %-5s %s\n",
			formatTimeOnly(e.Timestamp), e.Layer, e.Category,
			truncate(e.Action, 28), strings.ToUpper(string(e.Outcome)), e.Detail))
	}
	b.WriteString(separator + "\n")
	return b.String()
}

// WriteJSONL writes the trail to disk as hash-chained JSONL, one entry
// per line, in the exact bytes the chain was computed over.
func (t *Trail) WriteJSONL(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("audit: create directory: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("audit: open file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range t.lines {
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("audit: write entry: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("audit: flush: %w", err)
	}
	return f.Sync()
}

func formatTimeOnly(ts string) string {
	t, err := time.Parse(model.TimestampFormat, ts)
	if err != nil {
		return ts
	}
	return t.Format("15:04:05")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
