package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evalsec/agentgate/internal/cryptoutil"
)

var keysDir string

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.PersistentFlags().StringVar(&keysDir, "dir", cryptoutil.DefaultDir(), "Key store directory")
	keysCmd.AddCommand(keysInitCmd)
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Owner key management",
}

var keysInitCmd = &cobra.Command{
	Use:   "init <owner-name>",
	Short: "Create an owner key if it does not already exist",
	Long: "Idempotent: the first call creates and persists the key, subsequent\n" +
		"calls leave the existing key untouched.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cryptoutil.NewKeyStore(keysDir)
		if err != nil {
			return err
		}
		existed := store.HasKey(args[0])
		if _, err := store.GetOrCreateKey(args[0]); err != nil {
			return err
		}
		if existed {
			fmt.Printf("key %q already exists\n", args[0])
		} else {
			fmt.Printf("created key %q\n", args[0])
		}
		return nil
	},
}
