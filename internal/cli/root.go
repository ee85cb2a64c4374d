// Package cli wires the cobra commands to the actions behind them.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stax",
		Short:         "Stax manages stacks of dependent git branches",
		Long:          `Stax manages stacks of dependent git branches, keeping each branch rebased on its parent and resuming cleanly after rebase conflicts.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newInitCmd(),
		newTrackCmd(),
		newUntrackCmd(),
		newCreateCmd(),
		newDeleteCmd(),
		newLogCmd(),
		newRestackCmd(),
		newSyncCmd(),
		newContinueCmd(),
		newAbortCmd(),
	)

	return rootCmd
}
