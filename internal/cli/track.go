package cli

import (
	"github.com/spf13/cobra"

	"stax.dev/stax/internal/actions"
	"stax.dev/stax/internal/runtime"
)

// newTrackCmd creates the track command
func newTrackCmd() *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "track [branch]",
		Short: "Start tracking a branch with stax",
		Long: `Start tracking a branch, recording its parent in the stack.
Defaults to the current branch with trunk as its parent.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			rc, err := runtime.GetContext()
			if err != nil {
				return err
			}

			branchName := ""
			if len(args) > 0 {
				branchName = args[0]
			}

			return actions.TrackAction(rc, actions.TrackOptions{
				BranchName: branchName,
				ParentName: parent,
			})
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "The branch to record as parent. Defaults to trunk.")

	return cmd
}

// newUntrackCmd creates the untrack command
func newUntrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "untrack [branch]",
		Short: "Stop tracking a branch with stax",
		Long: `Stop tracking a branch. Its children are reparented onto its parent.
The git branch itself is not touched.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			rc, err := runtime.GetContext()
			if err != nil {
				return err
			}

			branchName := ""
			if len(args) > 0 {
				branchName = args[0]
			}

			return actions.UntrackAction(rc, branchName)
		},
	}

	return cmd
}
