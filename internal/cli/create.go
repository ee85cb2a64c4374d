package cli

import (
	"github.com/spf13/cobra"

	"stax.dev/stax/internal/actions"
	"stax.dev/stax/internal/runtime"
)

// newCreateCmd creates the create command
func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <branch>",
		Short: "Create a new branch stacked on the current branch",
		Long: `Create a new branch stacked on top of the current branch and
start tracking it immediately.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := runtime.GetContext()
			if err != nil {
				return err
			}

			return actions.CreateAction(cmd.Context(), rc, actions.CreateOptions{
				BranchName: args[0],
			})
		},
	}

	return cmd
}
