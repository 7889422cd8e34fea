package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
// These match the expectations of shell scripts wrapping rpick:
//
//	0 = selection made (use the result)
//	1 = cancelled by user (keep original input)
//	2 = error (no TTY, bad flags, fetch setup failure, etc.)
const (
	exitSuccess   = 0
	exitCancelled = 1
	exitError     = 2
)

var rootCmd = &cobra.Command{
	Use:   "rpick",
	Short: "interactive picker for remote paged listings",
	Long: `rpick - pick one line from a paged, lazily fetched listing
  - pipe lines in, or point it at a command or an indexed catalog
  - vim-style keys, fuzzy filtering, pages load as you scroll`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitCode is set by subcommands that finish without an error but still
// need a non-zero exit status (a cancelled pick session).
var exitCode = exitSuccess

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rpick: %v\n", err)
		return exitError
	}
	return exitCode
}

func init() {
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(versionCmd)
}
