package cmd

import (
	"fmt"
	"log"
	"sort"

	"github.com/chukul/aimsctl/internal"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored session profiles",
	Run: func(cmd *cobra.Command, args []string) {
		profiles, err := internal.ListProfiles()
		if err != nil {
			log.Fatalf("Failed to read session store: %v", err)
		}
		if len(profiles) == 0 {
			fmt.Println("No profiles found. Run 'aimsctl login' to create one.")
			return
		}

		sort.Strings(profiles)
		for _, p := range profiles {
			fmt.Println("📦", p)
		}
		fmt.Printf("\n%d stored profile(s). Run 'aimsctl status' for details.\n", len(profiles))
	},
}
