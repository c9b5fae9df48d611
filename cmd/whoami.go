package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/chukul/aimsctl/internal"
	"github.com/spf13/cobra"
)

var (
	whoamiProfile string
	whoamiSecret  string
	whoamiJSON    bool
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account identity of a stored session",
	Run: func(cmd *cobra.Command, args []string) {
		secret := mustGetSecret(whoamiSecret)

		s, err := internal.LoadSession(whoamiProfile, secret)
		if err != nil {
			log.Fatalf("Failed to load session for profile '%s': %v", whoamiProfile, err)
		}

		if whoamiJSON {
			out, _ := json.MarshalIndent(map[string]string{
				"profile":         s.Profile,
				"account_id":      s.AccountID,
				"account_name":    s.AccountName,
				"global_endpoint": s.GlobalEndpoint,
				"residency":       s.Residency,
			}, "", "  ")
			fmt.Println(string(out))
			return
		}

		fmt.Printf("👤 Account: %s (%s)\n", s.AccountName, s.AccountID)
		fmt.Printf("   Endpoint: %s, residency: %s\n", s.GlobalEndpoint, s.Residency)
	},
}

func init() {
	whoamiCmd.Flags().StringVar(&whoamiProfile, "profile", internal.DefaultProfile, "Profile to inspect")
	whoamiCmd.Flags().StringVar(&whoamiSecret, "secret", "", "Secret key for decryption")
	whoamiCmd.Flags().BoolVar(&whoamiJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(whoamiCmd)
}
