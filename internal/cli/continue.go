package cli

import (
	"github.com/spf13/cobra"

	"stax.dev/stax/internal/actions"
	"stax.dev/stax/internal/runtime"
)

// newContinueCmd creates the continue command
func newContinueCmd() *cobra.Command {
	var addAll bool

	cmd := &cobra.Command{
		Use:   "continue",
		Short: "Resume the stax command halted by a rebase conflict",
		Long: `Resume the most recent stax command halted by a rebase conflict.
Resolved files must be staged first, or pass --all to stage everything.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rc, err := runtime.GetContext()
			if err != nil {
				return err
			}

			return actions.ContinueAction(cmd.Context(), rc, actions.ContinueOptions{
				AddAll: addAll,
			})
		},
	}

	cmd.Flags().BoolVarP(&addAll, "all", "a", false, "Stage all changes before continuing.")

	return cmd
}
