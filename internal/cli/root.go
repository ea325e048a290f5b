// Package cli implements the cdk command-line interface. Service instances
// are package-level variables wired by internal.NewApp before Execute runs.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "cdk",
	Short: "clientdeck - client and task management dashboard",
	Long: `clientdeck (cdk) is a client-management dashboard for the terminal.

It tracks clients and their tasks (status, priority, SLA deadlines),
supports bulk JSON import and export, filtered listing and search,
SLA alerting, and an interactive dashboard.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cdk %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
