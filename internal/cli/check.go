package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evalsec/agentgate/internal/config"
	"github.com/evalsec/agentgate/internal/policy"
)

var (
	checkAgent  string
	checkTool   string
	checkModel  string
	checkParams []string
	checkFormat string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkAgent, "agent", "", "Agent name (required)")
	checkCmd.Flags().StringVar(&checkTool, "tool", "", "Tool name to check")
	checkCmd.Flags().StringVar(&checkModel, "model", "", "Model id to check")
	checkCmd.Flags().StringArrayVar(&checkParams, "param", nil, "Tool parameter as key=value (repeatable)")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
	checkCmd.MarkFlagRequired("agent")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate an agent capability request through the full governance chain",
	Long: "Runs a single agent→tool or agent→model request through the policy\n" +
		"engine, then (for tools) the governance tier check and parameter\n" +
		"validation, and prints every decision with its reason.\n\n" +
		"Exit code 0 if the request would be allowed, 1 if denied.",
	RunE: runCheck,
}

type checkReport struct {
	Policy     policy.Decision `json:"policy"`
	Governance any             `json:"governance,omitempty"`
	Validation any             `json:"validation,omitempty"`
	Allowed    bool            `json:"allowed"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	if (checkTool == "") == (checkModel == "") {
		return fmt.Errorf("exactly one of --tool or --model is required")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	engine := policy.NewEngine(cfg.Registry())

	report := checkReport{Allowed: true}

	if checkModel != "" {
		report.Policy = engine.CheckModel(checkAgent, checkModel)
		report.Allowed = report.Policy.Allowed
	} else {
		report.Policy = engine.CheckTool(checkAgent, checkTool)
		report.Allowed = report.Policy.Allowed

		gov, err := cfg.Governance()
		if err != nil {
			return err
		}
		decision := gov.Check(checkTool)
		report.Governance = decision
		if !decision.Allowed {
			report.Allowed = false
		}

		params, err := parseParams(checkParams)
		if err != nil {
			return err
		}
		validation := cfg.Validator().Validate(checkTool, params)
		report.Validation = validation
		if !validation.Valid {
			report.Allowed = false
		}
	}

	if checkFormat == "json" {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		fmt.Println(string(out))
	} else {
		printCheckReport(report)
	}

	if !report.Allowed {
		os.Exit(1)
	}
	return nil
}

func printCheckReport(report checkReport) {
	verdict := func(ok bool) string {
		if ok {
			return "ALLOW"
		}
		return "DENY"
	}
	fmt.Printf("policy:     %s  %s\n", verdict(report.Policy.Allowed), report.Policy.Reason)
	if report.Governance != nil {
		fmt.Printf("governance: %v\n", report.Governance)
	}
	if report.Validation != nil {
		fmt.Printf("validation: %v\n", report.Validation)
	}
	fmt.Printf("result:     %s\n", verdict(report.Allowed))
}

// parseParams turns repeated key=value flags into a parameter map.
// Values stay strings; the validator's coercion rules decide whether
// they satisfy numeric schemas.
func parseParams(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q, want key=value", p)
		}
		params[key] = value
	}
	return params, nil
}
