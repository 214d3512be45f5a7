package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evalsec/agentgate/internal/audit"
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditExportCmd)
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit ledger operations",
	Long:  "Commands for verifying and rendering exported hash-chained audit ledgers.",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <path>",
	Short: "Verify hash chain integrity of an exported ledger",
	Long: "Walks the JSONL ledger and validates that every entry's prev_hash\n" +
		"matches the SHA-256 of the previous entry. Exits 0 if valid, 1 if tampered.",
	Args: cobra.ExactArgs(1),
	RunE: runAuditVerify,
}

var auditExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Render an exported ledger as a table",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditExport,
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	result := audit.Verify(args[0])
	if result.Valid {
		fmt.Printf("OK: %d entries verified\n", result.Lines)
		return nil
	}
	fmt.Fprintf(os.Stderr, "FAILED at line %d: %s\n", result.ErrorLine, result.Error)
	os.Exit(1)
	return nil
}

func runAuditExport(cmd *cobra.Command, args []string) error {
	entries, err := audit.ReadJSONL(args[0])
	if err != nil {
		return err
	}
	fmt.Print(audit.FormatEntries(entries))
	return nil
}
