package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/evalsec/agentgate/internal/alerting"
	"github.com/evalsec/agentgate/internal/audit"
	"github.com/evalsec/agentgate/internal/compliance"
	"github.com/evalsec/agentgate/internal/config"
	"github.com/evalsec/agentgate/internal/consistency"
	"github.com/evalsec/agentgate/internal/cryptoutil"
	"github.com/evalsec/agentgate/internal/metrics"
	"github.com/evalsec/agentgate/internal/model"
	"github.com/evalsec/agentgate/internal/outputfilter"
	"github.com/evalsec/agentgate/internal/policy"
	"github.com/evalsec/agentgate/internal/ratelimit"
	"github.com/evalsec/agentgate/internal/redact"
	"github.com/evalsec/agentgate/internal/shield"
	"github.com/evalsec/agentgate/internal/state"
)

var (
	demoShieldEndpoint string
	demoLedgerOut      string
	demoStateDir       string
	demoKeysDir        string
)

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().StringVar(&demoShieldEndpoint, "shield-endpoint", "", "Safety service endpoint (shields skipped when empty)")
	demoCmd.Flags().StringVarP(&demoLedgerOut, "out", "o", "", "Write the audit ledger as JSONL to this path")
	demoCmd.Flags().StringVar(&demoStateDir, "state-dir", state.DefaultDir(), "Directory for the persisted evaluation record")
	demoCmd.Flags().StringVar(&demoKeysDir, "keys-dir", cryptoutil.DefaultDir(), "Directory for owner keys")
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run one governed evaluation end to end against canned specialist output",
	Long: "Drives a full pipeline run through every enforcement surface: rate\n" +
		"limiting, capability policy, tool governance and validation, PII\n" +
		"sanitization, optional shields, consistency checks, the secret filter,\n" +
		"encrypted state, the audit ledger, alerts, and the coverage report.\n" +
		"The encrypted record lands where `state list` and `state show` read.",
	RunE: runDemo,
}

// demoRecord is the persisted result of a demo run.
type demoRecord struct {
	Subject    string             `json:"subject"`
	Scores     map[string]float64 `json:"scores"`
	Transcript []string           `json:"transcript"`
}

// demoRun bundles the per-run collaborators finish needs.
type demoRun struct {
	out          io.Writer
	errOut       io.Writer
	trail        *audit.Trail
	collector    *alerting.Collector
	dispatcher   *alerting.Dispatcher
	reg          *prometheus.Registry
	evaluationID string
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, cfgHash, err := config.LoadWithHash(configPath)
	if err != nil {
		return err
	}
	gov, err := cfg.Governance()
	if err != nil {
		return err
	}

	evaluationID := "eval-" + uuid.NewString()[:8]
	subject := "subscription analytics platform for small retailers"

	reg := prometheus.NewRegistry()
	mets := metrics.New(reg)
	run := &demoRun{
		out:          cmd.OutOrStdout(),
		errOut:       cmd.ErrOrStderr(),
		trail:        audit.NewTrail(evaluationID, subject),
		collector:    alerting.NewCollector(cfg.Alerts.Thresholds),
		dispatcher:   alerting.NewDispatcher(cfg.Alerts.Webhooks),
		reg:          reg,
		evaluationID: evaluationID,
	}
	trail, collector := run.trail, run.collector
	engine := policy.NewEngine(cfg.Registry())
	validator := cfg.Validator()

	fmt.Fprintf(run.out, "evaluation %s (config %s)\n", evaluationID, cfgHash)

	// Inbound admission.
	limiter := ratelimit.NewLimiter(cfg.Gateway.RateLimitCapacity, cfg.Gateway.RateLimitRefillRate)
	if err := limiter.Allow("demo-client"); err != nil {
		mets.RecordAdmission(false)
		return err
	}
	mets.RecordAdmission(true)

	// Sanitize the user-supplied input before it reaches any model.
	input := "Evaluate this idea: " + subject + ". Contact founder@example.com for details."
	sanitized := redact.Sanitize(input)
	trail.RecordSanitization(len(sanitized.Redactions), sanitized.Types())
	trail.RecordInputValidation(true, "input accepted")

	// Optional shield gate on the inbound boundary.
	var gate *shield.Gate
	if demoShieldEndpoint != "" {
		classifier := shield.NewHTTPClassifier(demoShieldEndpoint, cfg.Shields.Timeout)
		gate = shield.NewGate(classifier, cfg.Shields.IDs, cfg.Shields.Timeout)
		multi, err := gate.Check(context.Background(), "user", sanitized.Sanitized, trail, collector)
		for range multi.Violations() {
			mets.RecordShieldViolation()
		}
		if err != nil {
			return run.finish(err)
		}
	} else {
		fmt.Fprintln(run.out, "shields: skipped (no --shield-endpoint)")
	}

	// Canned specialist turns: agent, requested tool, parameters, output.
	turns := []struct {
		agent  string
		tool   string
		params map[string]any
		output string
		score  float64
	}{
		{
			agent:  "market",
			tool:   "search_comparables",
			params: map[string]any{"sector": "saas", "limit": "5"},
			output: "Strong comparables in the SMB analytics space. Score: 7/10",
			score:  7,
		},
		{
			agent:  "finance",
			tool:   "calculator",
			params: map[string]any{"expression": "1200*0.72"},
			output: "Margins are thin but workable at scale. Score: 6/10",
			score:  6,
		},
		{
			agent:  "risk",
			tool:   "risk_checklist",
			params: map[string]any{"domain": "retail-analytics"},
			output: "Churn is a critical risk and data compliance a major concern. Score: 3/10",
			score:  3,
		},
	}

	checker := consistency.NewValidator(nil, false)
	var transcript []string

	for _, turn := range turns {
		decision := engine.CheckTool(turn.agent, turn.tool)
		trail.RecordPolicy(turn.agent, turn.tool, decision.Allowed, decision.Reason)
		collector.RecordPolicyDecision(turn.agent, decision.Allowed)
		if !decision.Allowed {
			mets.RecordPolicyDenial()
			continue
		}

		tier := gov.Check(turn.tool)
		trail.RecordToolGovernance(turn.tool, string(tier.Tier), tier.Allowed)
		if !tier.Allowed {
			continue
		}

		validation := validator.Validate(turn.tool, turn.params)
		if !validation.Valid {
			trail.RecordInputValidation(false, fmt.Sprintf("tool %s: %v", turn.tool, validation.Errors))
			continue
		}

		// Boundary gate on the specialist's output.
		if gate != nil {
			multi, err := gate.Check(context.Background(), turn.agent, turn.output, trail, collector)
			for range multi.Violations() {
				mets.RecordShieldViolation()
			}
			if err != nil {
				return run.finish(err)
			}
		}

		verdict := checker.Validate(context.Background(), turn.agent, turn.output)
		if !verdict.Passed {
			trail.Record(audit.LayerAgent, "evaluation", "consistency:"+turn.agent,
				verdict.Reason, model.OutcomeFail)
			continue
		}

		trail.RecordEvaluation(turn.agent, turn.score)
		collector.RecordScore(turn.agent, turn.score)
		transcript = append(transcript, fmt.Sprintf("%s: %s", turn.agent, turn.output))
	}

	// Final output leaves the pipeline only if it is free of secrets.
	finalReport := "Composite: promising niche, execution risk concentrated in churn. Score: 6/10"
	scan := outputfilter.Scan(finalReport)
	trail.RecordOutputFilter(scan.Passed, len(scan.Detections))
	trail.RecordScoring("overall", 6)

	// Persist the run encrypted under the pipeline owner key, in the
	// directories the state commands read from.
	keys, err := cryptoutil.NewKeyStore(demoKeysDir)
	if err != nil {
		return err
	}
	mgr, err := state.NewManager(demoStateDir, keys)
	if err != nil {
		return err
	}
	record := demoRecord{
		Subject:    subject,
		Scores:     map[string]float64{"market": 7, "finance": 6, "risk": 3},
		Transcript: transcript,
	}
	if err := mgr.Save(record, evaluationID, "pipeline"); err != nil {
		return err
	}
	trail.RecordEncryption(evaluationID, "save")
	fmt.Fprintf(run.out, "state record %s saved to %s\n", evaluationID, demoStateDir)

	return run.finish(nil)
}

// finish prints the run summary, alerts, coverage, and counters, and
// hands triggered alerts to the webhook dispatcher. A safety violation
// is reported before it propagates.
func (d *demoRun) finish(runErr error) error {
	fmt.Fprint(d.out, d.trail.FormatTable())

	if demoLedgerOut != "" {
		if err := d.trail.WriteJSONL(demoLedgerOut); err != nil {
			return err
		}
		fmt.Fprintf(d.out, "ledger written to %s\n", demoLedgerOut)
	}

	for _, alert := range d.collector.Evaluate() {
		fmt.Fprintf(d.out, "ALERT [%s] %s: %s\n", alert.Severity, alert.Rule, alert.Message)
		if d.dispatcher != nil {
			d.dispatcher.Dispatch(d.evaluationID, alert)
		}
	}

	report := compliance.FromTrail(d.trail)
	fmt.Fprint(d.out, report.FormatTable())

	families, err := d.reg.Gather()
	if err != nil {
		return fmt.Errorf("demo: gather metrics: %w", err)
	}
	fmt.Fprintln(d.out, "metrics:")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(d.out, "  %s %g\n", mf.GetName(), m.GetCounter().GetValue())
		}
	}

	var violation *model.ViolationError
	if errors.As(runErr, &violation) {
		fmt.Fprintf(d.errOut, "run aborted: %v\n", violation)
	}
	return runErr
}
