package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/chukul/aimsctl/internal"
	"github.com/chukul/aimsctl/internal/ui"
	"github.com/spf13/cobra"
)

var (
	logoutProfile string
	logoutAll     bool
)

func init() {
	logoutCmd.Flags().StringVar(&logoutProfile, "profile", "", "Profile name to remove from the session store")
	logoutCmd.Flags().BoolVar(&logoutAll, "all", false, "Remove all stored profiles")
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored sessions for a profile or all profiles",
	Run: func(cmd *cobra.Command, args []string) {
		if !logoutAll && logoutProfile == "" {
			profiles, err := internal.ListProfiles()
			if err != nil || len(profiles) == 0 {
				fmt.Println("❌ No stored profiles found.")
				return
			}

			selected, err := ui.SelectProfile("Select Profile to Logout", profiles)
			if err != nil {
				return
			}
			logoutProfile = selected
		}

		if logoutAll {
			fmt.Print("⚠️  This will remove all stored sessions. Type 'yes' to confirm: ")
			reader := bufio.NewReader(os.Stdin)
			input, _ := reader.ReadString('\n')
			if strings.TrimSpace(input) != "yes" {
				fmt.Println("❌ Operation cancelled.")
				return
			}

			if err := internal.ClearAllSessions(); err != nil {
				log.Fatalf("Failed to clear sessions: %v", err)
			}
			fmt.Println("✅ All profiles removed successfully.")
			return
		}

		if err := internal.RemoveProfile(logoutProfile); err != nil {
			log.Fatalf("Failed to remove profile %s: %v", logoutProfile, err)
		}

		fmt.Printf("✅ Profile '%s' removed successfully.\n", logoutProfile)
	},
}
