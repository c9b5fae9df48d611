package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chukul/aimsctl/internal"
	"github.com/chukul/aimsctl/internal/ui"
	"github.com/spf13/cobra"
)

var (
	loginProfile   string
	loginKeyID     string
	loginEndpoint  string
	loginResidency string
	loginAccountID string
	loginSecret    string
)

func init() {
	loginCmd.Flags().StringVar(&loginProfile, "profile", internal.DefaultProfile, "Name to store the session under (also the config file section)")
	loginCmd.Flags().StringVar(&loginKeyID, "key-id", "", "AIMS access key id (falls back to env/config, then prompts)")
	loginCmd.Flags().StringVar(&loginEndpoint, "endpoint", "", "Global endpoint: production or integration")
	loginCmd.Flags().StringVar(&loginResidency, "residency", "", "Data residency: default, us or emea")
	loginCmd.Flags().StringVar(&loginAccountID, "account-id", "", "Account id to pin instead of the key owner's account")
	loginCmd.Flags().StringVar(&loginSecret, "secret", "", "32-byte local encryption key for the session store")

	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against AIMS and store the encrypted session token",
	Run: func(cmd *cobra.Command, args []string) {
		secret := mustGetSecret(loginSecret)

		// Resolve everything that env vars and the config file provide
		// before deciding what to prompt for.
		cfg, err := internal.ResolveConfig(internal.Config{
			AccessKeyID:    loginKeyID,
			AccountID:      loginAccountID,
			Profile:        loginProfile,
			GlobalEndpoint: loginEndpoint,
			Residency:      loginResidency,
		})
		if err != nil {
			log.Fatalf("Failed to resolve configuration: %v", err)
		}

		if cfg.AccessKeyID == "" {
			cfg.AccessKeyID, err = ui.PromptText("AIMS Access Key ID")
			if err != nil {
				log.Fatal("Error: access key id is required.")
			}
		}
		if cfg.SecretKey == "" {
			cfg.SecretKey, err = ui.PromptSecret("AIMS Secret Key")
			if err != nil {
				cfg.SecretKey, err = readPassword("AIMS Secret Key: ")
			}
			if err != nil || cfg.SecretKey == "" {
				log.Fatal("Error: secret key is required.")
			}
		}

		sess, err := internal.NewSession(
			internal.WithAccessKey(cfg.AccessKeyID, cfg.SecretKey),
			internal.WithAccountID(cfg.AccountID),
			internal.WithProfile(cfg.Profile),
			internal.WithGlobalEndpoint(cfg.GlobalEndpoint),
			internal.WithResidency(cfg.Residency),
		)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}

		err = ui.Await(context.Background(), fmt.Sprintf("Authenticating against %s", sess.GlobalEndpointURL()), sess.Authenticate)
		if err != nil {
			log.Fatalf("Authentication failed: %v", err)
		}

		accountID, err := sess.AccountID(context.Background())
		if err != nil {
			log.Fatalf("Authentication failed: %v", err)
		}

		stored := &internal.StoredSession{
			Profile:        loginProfile,
			Token:          sess.Token(),
			AccountID:      accountID,
			AccountName:    sess.AccountName(),
			GlobalEndpoint: sess.GlobalEndpoint(),
			Residency:      sess.Residency(),
			CreatedAt:      time.Now(),
		}
		if err := internal.SaveSession(loginProfile, stored, secret); err != nil {
			log.Fatalf("Failed to save session: %v", err)
		}

		fmt.Printf("✅ Authenticated as account %s (%s)\n", stored.AccountName, stored.AccountID)
		fmt.Printf("   Session stored under profile '%s'\n", loginProfile)
	},
}
