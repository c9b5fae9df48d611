package cmd

import (
	"fmt"
	"runtime"

	"github.com/chukul/aimsctl/internal"
	"github.com/spf13/cobra"
)

var versionShort bool

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		if versionShort {
			fmt.Println(internal.CurrentVersion)
			return
		}

		fmt.Printf("aimsctl %s (%s, %s/%s)\n", internal.CurrentVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)

		release, err := internal.LatestRelease()
		if err != nil {
			fmt.Printf("Unable to check for updates: %v\n", err)
			return
		}

		if internal.IsNewer(release.Version, internal.CurrentVersion) {
			fmt.Printf("\n💡 Update available: %s → %s\n", internal.CurrentVersion, release.Version)
			fmt.Printf("   Download: %s\n", release.URL)
		} else {
			fmt.Println("✅ You're running the latest version")
		}
	},
}
