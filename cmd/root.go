package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reschool-widgets",
	Short: "Shared widget data for the ReSchool app",
	Long: `reschool-widgets stores the schedule, homework and grades snapshots the
ReSchool app publishes for its home-screen widgets, and reads them back the
way the widgets do: shared store first, then the file fallbacks.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
