package cmd

import (
	"fmt"

	"github.com/chukul/aimsctl/internal"
	"github.com/spf13/cobra"
)

var (
	exportProfile string
	exportSecret  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored AIMS session as environment variables",
	Long:  `Print shell export statements for a stored session so other tools can pick the token up from the environment. Usage: eval "$(aimsctl export --profile default)"`,
	Run: func(cmd *cobra.Command, args []string) {
		secret := mustGetSecret(exportSecret)

		s, err := internal.LoadSession(exportProfile, secret)
		if err != nil {
			fmt.Printf("❌ Failed to load session for profile '%s': %v\n", exportProfile, err)
			return
		}

		// Output shell-compatible export commands
		fmt.Printf("export AIMSCTL_TOKEN=%s\n", s.Token)
		fmt.Printf("export AIMSCTL_ACCOUNT_ID=%s\n", s.AccountID)
		fmt.Printf("export AIMSCTL_GLOBAL_ENDPOINT=%s\n", s.GlobalEndpoint)
		fmt.Printf("export AIMSCTL_RESIDENCY=%s\n", s.Residency)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportProfile, "profile", internal.DefaultProfile, "Profile to export")
	exportCmd.Flags().StringVar(&exportSecret, "secret", "", "Secret key for decryption")
	rootCmd.AddCommand(exportCmd)
}
