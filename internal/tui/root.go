package tui

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information set from main.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

var rootCmd = &cobra.Command{
	Use:   "tourguide",
	Short: "Keyboard-driven onboarding walkthrough engine",
	Long: `Tourguide loads a declarative slide/task walkthrough model, tracks task
completion driven by application events, auto-advances slides, and persists
progress to a watched key-value store. The CLI plays walkthroughs in the
terminal, replays recorded event traces, and inspects persisted state.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
}
