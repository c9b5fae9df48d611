package cmd

import (
	"fmt"
	"log"

	"github.com/chukul/aimsctl/internal"
	"github.com/spf13/cobra"
)

var (
	tokenProfile string
	tokenSecret  string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the raw AIMS token of a stored session",
	Long:  `Print the bearer token only, suitable for piping into curl: curl -H "x-aims-auth-token: $(aimsctl token)" ...`,
	Run: func(cmd *cobra.Command, args []string) {
		secret := mustGetSecret(tokenSecret)

		s, err := internal.LoadSession(tokenProfile, secret)
		if err != nil {
			log.Fatalf("Failed to load session for profile '%s': %v", tokenProfile, err)
		}
		fmt.Println(s.Token)
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenProfile, "profile", internal.DefaultProfile, "Profile to read the token from")
	tokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "Secret key for decryption")
	rootCmd.AddCommand(tokenCmd)
}
