package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "free-ran-enb",
	Short:   "This is an eNB MAC scheduler.",
	Long:    "This is a per-carrier LTE MAC scheduler standing in for the eNB scheduling stack.",
	Example: "free-ran-enb run -c config/scheduler.yaml",
}

// Execute runs the root command, the single entry point main.go calls.
func Execute() error {
	return rootCmd.Execute()
}
