package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stax.dev/stax/internal/config"
	"stax.dev/stax/internal/engine"
	"stax.dev/stax/internal/git"
	"stax.dev/stax/internal/output"
)

// inferTrunk picks a trunk when none is given: the first common trunk name
// present in the repo, else the only branch the repo has.
func inferTrunk(branchNames []string) string {
	for _, candidate := range []string{"main", "master", "trunk", "develop"} {
		for _, name := range branchNames {
			if name == candidate {
				return candidate
			}
		}
	}
	if len(branchNames) == 1 {
		return branchNames[0]
	}
	return ""
}

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	var (
		trunk string
		reset bool
	)

	cmd := &cobra.Command{
		Use:          "init",
		Short:        "Initialize stax in the current repository",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := git.InitDefaultRepo(); err != nil {
				return fmt.Errorf("not a git repository: %w", err)
			}

			repoRoot, err := git.GetRepoRoot()
			if err != nil {
				return fmt.Errorf("failed to get repo root: %w", err)
			}

			branchNames, err := git.GetAllBranchNames()
			if err != nil {
				return fmt.Errorf("failed to get branches: %w", err)
			}
			if len(branchNames) == 0 {
				return fmt.Errorf("no branches found; create your first commit and re-run stax init")
			}

			trunkName := trunk
			if trunkName == "" {
				trunkName = inferTrunk(branchNames)
			}
			if trunkName == "" {
				return fmt.Errorf("could not infer the trunk branch; pass one with --trunk")
			}
			if !git.BranchExists(trunkName) {
				return fmt.Errorf("branch %s does not exist", trunkName)
			}

			if err := config.SetTrunk(repoRoot, trunkName); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			eng, err := engine.NewEngine(repoRoot)
			if err != nil {
				return fmt.Errorf("failed to create engine: %w", err)
			}

			if reset {
				if err := eng.Reset(trunkName); err != nil {
					return err
				}
			} else if err := eng.Rebuild(trunkName); err != nil {
				return err
			}

			splog := output.NewSplog()
			splog.Info("Initialized stax with trunk %s.", output.ColorBranchName(trunkName, false))
			if reset {
				splog.Info("Cleared all tracked branch relationships.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&trunk, "trunk", "", "The name of your trunk branch.")
	cmd.Flags().BoolVar(&reset, "reset", false, "Untrack all branches and start over.")

	return cmd
}
