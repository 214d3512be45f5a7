package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evalsec/agentgate/internal/config"
	"github.com/evalsec/agentgate/internal/governance"
)

func init() {
	rootCmd.AddCommand(toolsCmd)
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List tool governance tiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		gov, err := cfg.Governance()
		if err != nil {
			return err
		}

		tiers := gov.ListTools()
		for _, tier := range []governance.Tier{governance.TierApproved, governance.TierConditional, governance.TierBlocked} {
			fmt.Printf("%s:\n", tier)
			for _, tool := range tiers[tier] {
				fmt.Printf("  %s\n", tool)
			}
		}
		return nil
	},
}
