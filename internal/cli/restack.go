package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stax.dev/stax/internal/actions"
	"stax.dev/stax/internal/engine"
	"stax.dev/stax/internal/runtime"
)

// newRestackCmd creates the restack command
func newRestackCmd() *cobra.Command {
	var (
		branch    string
		downstack bool
		only      bool
		upstack   bool
	)

	cmd := &cobra.Command{
		Use:   "restack",
		Short: "Rebase each branch in the stack onto its parent's current tip",
		Long: `Rebase each branch in the stack onto its parent's current tip.
If a rebase hits conflicts, the remaining work is saved; resolve the
conflicts and run 'stax continue'.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scopeFlags := 0
			if downstack {
				scopeFlags++
			}
			if only {
				scopeFlags++
			}
			if upstack {
				scopeFlags++
			}
			if scopeFlags > 1 {
				return fmt.Errorf("only one of --downstack, --only, or --upstack can be specified")
			}

			rc, err := runtime.GetContext()
			if err != nil {
				return err
			}

			targetBranch := branch
			if targetBranch == "" {
				targetBranch = rc.Engine.CurrentBranch()
				if targetBranch == "" {
					return fmt.Errorf("not on a branch and --branch not specified")
				}
			}

			scope := engine.Scope{
				RecursiveParents:  !only && !upstack,
				IncludeCurrent:    true,
				RecursiveChildren: !only && !downstack,
			}

			return actions.RestackAction(cmd.Context(), rc, actions.RestackOptions{
				BranchName: targetBranch,
				Scope:      scope,
			})
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "Which branch to run this command from. Defaults to the current branch.")
	cmd.Flags().BoolVar(&downstack, "downstack", false, "Only restack this branch and its ancestors.")
	cmd.Flags().BoolVar(&only, "only", false, "Only restack this branch.")
	cmd.Flags().BoolVar(&upstack, "upstack", false, "Only restack this branch and its descendants.")

	return cmd
}
