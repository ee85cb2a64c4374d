package cli

import (
	"github.com/spf13/cobra"

	"stax.dev/stax/internal/actions"
	"stax.dev/stax/internal/runtime"
)

// newDeleteCmd creates the delete command
func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete [branch]",
		Short: "Delete a branch and reparent its children",
		Long: `Delete a branch along with its tracked relationship. Children of the
deleted branch are reparented onto its parent. Prompts for confirmation
when children exist unless --force is given.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := runtime.GetContext()
			if err != nil {
				return err
			}

			branchName := ""
			if len(args) > 0 {
				branchName = args[0]
			}

			return actions.DeleteAction(cmd.Context(), rc, actions.DeleteOptions{
				BranchName: branchName,
				Force:      force,
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without confirmation.")

	return cmd
}
