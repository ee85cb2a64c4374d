package cli

import (
	"github.com/spf13/cobra"

	"stax.dev/stax/internal/actions"
	"stax.dev/stax/internal/runtime"
)

// newAbortCmd creates the abort command
func newAbortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abort",
		Short: "Abort the stax command halted by a rebase conflict",
		Long: `Abort the stax command halted by a rebase conflict.
The in-progress rebase is cancelled and all pending work is discarded.
Branches that were already restacked keep their new state.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rc, err := runtime.GetContext()
			if err != nil {
				return err
			}

			return actions.AbortAction(cmd.Context(), rc)
		},
	}

	return cmd
}
