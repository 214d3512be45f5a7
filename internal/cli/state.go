package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evalsec/agentgate/internal/cryptoutil"
	"github.com/evalsec/agentgate/internal/state"
)

var (
	stateDir   string
	stateOwner string
)

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.PersistentFlags().StringVar(&stateDir, "dir", state.DefaultDir(), "State directory")
	stateCmd.AddCommand(stateListCmd)
	stateShowCmd.Flags().StringVar(&stateOwner, "owner", "pipeline", "Owner name whose key decrypts the record")
	stateCmd.AddCommand(stateShowCmd)
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Encrypted evaluation state operations",
}

var stateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved evaluation ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := openStateManager()
		if err != nil {
			return err
		}
		ids, err := mgr.List()
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

var stateShowCmd = &cobra.Command{
	Use:   "show <evaluation-id>",
	Short: "Decrypt and print a saved evaluation record",
	Long: "Verifies the integrity tag, decrypts under the owner's key, and prints\n" +
		"the record JSON. Tampering and a wrong owner key fail distinctly.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := openStateManager()
		if err != nil {
			return err
		}
		raw, err := mgr.LoadRaw(args[0], stateOwner)
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	},
}

func openStateManager() (*state.Manager, error) {
	keys, err := cryptoutil.NewKeyStore(cryptoutil.DefaultDir())
	if err != nil {
		return nil, err
	}
	return state.NewManager(stateDir, keys)
}
