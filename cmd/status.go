package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/chukul/aimsctl/internal"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	statusProfile string
	statusSecret  string
	outputJSON    bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show all stored AIMS sessions with account, endpoint and age",
	Run: func(cmd *cobra.Command, args []string) {
		secret := mustGetSecret(statusSecret)

		sessions, err := internal.ListAllSessions(secret)
		if err != nil {
			log.Fatalf("Failed to list sessions: %v", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No stored sessions found.")
			return
		}

		// Filter by profile if provided
		if statusProfile != "" {
			filtered := []*internal.StoredSession{}
			for _, s := range sessions {
				if s.Profile == statusProfile {
					filtered = append(filtered, s)
				}
			}
			sessions = filtered
			if len(sessions) == 0 {
				fmt.Printf("No session found for profile: %s\n", statusProfile)
				return
			}
		}

		// Sort oldest first
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
		})

		// Optional JSON output
		if outputJSON {
			jsonData, _ := json.MarshalIndent(sessions, "", "  ")
			fmt.Println(string(jsonData))
			return
		}

		// Fancy table header
		header := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("%-20s %-12s %-30s %-13s %-10s %-12s\n",
			header("PROFILE"), header("ACCOUNT"), header("NAME"), header("ENDPOINT"), header("RESIDENCY"), header("AGE"))
		fmt.Println(strings.Repeat("-", 100))

		now := time.Now()
		for _, s := range sessions {
			age := now.Sub(s.CreatedAt)
			var ageStr string
			if age.Hours() >= 24 {
				ageStr = fmt.Sprintf("%dd%dh", int(age.Hours())/24, int(age.Hours())%24)
			} else {
				ageStr = fmt.Sprintf("%dh%dm", int(age.Hours()), int(age.Minutes())%60)
			}

			endpointColor := color.New(color.FgGreen).SprintFunc()
			if s.GlobalEndpoint == internal.IntegrationEndpoint {
				endpointColor = color.New(color.FgYellow).SprintFunc()
			}

			fmt.Printf("%-20s %-12s %-30s %-13s %-10s %-12s\n",
				s.Profile,
				s.AccountID,
				truncateText(s.AccountName, 28),
				endpointColor(s.GlobalEndpoint),
				s.Residency,
				ageStr,
			)
		}
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusSecret, "secret", "", "Decryption key used at login")
	statusCmd.Flags().StringVar(&statusProfile, "profile", "", "Filter by specific profile")
	statusCmd.Flags().BoolVar(&outputJSON, "json", false, "Output results in JSON format for automation")
	rootCmd.AddCommand(statusCmd)
}
