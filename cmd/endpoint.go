package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/chukul/aimsctl/internal"
	"github.com/spf13/cobra"
)

var (
	endpointProfile   string
	endpointSecret    string
	endpointAccountID string
)

var endpointCmd = &cobra.Command{
	Use:   "endpoint <service>",
	Short: "Resolve the base URL of an AIMS-backed service",
	Long:  `Query the endpoint directory for the service's regional hostname, taking the session's account id and residency into account.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service := args[0]
		secret := mustGetSecret(endpointSecret)

		sess, _, err := sessionFromStore(endpointProfile, secret)
		if err != nil {
			log.Fatalf("Failed to load session for profile '%s': %v", endpointProfile, err)
		}

		url, err := sess.GetURL(context.Background(), service, endpointAccountID)
		if err != nil {
			log.Fatalf("Failed to resolve endpoint for '%s': %v", service, err)
		}

		fmt.Println(url)
	},
}

func init() {
	endpointCmd.Flags().StringVar(&endpointProfile, "profile", internal.DefaultProfile, "Profile whose session is used for the lookup")
	endpointCmd.Flags().StringVar(&endpointSecret, "secret", "", "Secret key for decryption")
	endpointCmd.Flags().StringVar(&endpointAccountID, "account-id", "", "Resolve for a different account id than the session's")
	rootCmd.AddCommand(endpointCmd)
}
