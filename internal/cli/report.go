package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evalsec/agentgate/internal/audit"
	"github.com/evalsec/agentgate/internal/compliance"
)

var reportFormat string

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "text", "Output format (text|json)")
}

var reportCmd = &cobra.Command{
	Use:   "report <ledger-path>",
	Short: "Generate a mitigation coverage report from an exported ledger",
	Long: "Walks the fixed mitigation taxonomy and marks each mitigation covered\n" +
		"when at least one ledger entry matches its layer and category filters.",
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	entries, err := audit.ReadJSONL(args[0])
	if err != nil {
		return err
	}

	evaluationID := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	report := compliance.Generate(evaluationID, entries)

	if reportFormat == "json" {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}
	fmt.Print(report.FormatTable())
	return nil
}
