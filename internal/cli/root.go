// Package cli implements the observe command-line interface.
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
	Use:   "observe",
	Short: "observe - watch event sources and fan them out to sinks",
	Long: `observe is a small event-watching toolkit built on a thread-safe
subject/observer primitive.

Sources (filesystem watcher, heartbeat ticker) publish typed events through
subjects; sinks (console printer, JSONL recorder, counters) attach as
observers. The watch command runs the pipeline in the foreground, events
queries the recorded log, and dashboard shows the stream live.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("observe %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
