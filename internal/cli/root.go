package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "agentgate",
	Short: "Governance and security enforcement layer for multi-agent pipelines",
	Long: "Mediates every cross-boundary action taken by semi-autonomous agents:\n" +
		"capability policy, tiered tool governance, parameter validation,\n" +
		"content-safety gating, tamper-evident audit, and encrypted state.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default ~/.agentgate/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
