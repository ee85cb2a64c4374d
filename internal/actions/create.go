package actions

import (
	"context"
	"fmt"

	"stax.dev/stax/internal/git"
	"stax.dev/stax/internal/output"
	"stax.dev/stax/internal/runtime"
)

// CreateOptions contains options for the create command
type CreateOptions struct {
	BranchName string
}

// CreateAction creates a new branch stacked on the current branch and
// tracks it immediately.
func CreateAction(ctx context.Context, rc *runtime.Context, opts CreateOptions) error {
	eng := rc.Engine

	parentName := eng.CurrentBranch()
	if parentName == "" {
		return fmt.Errorf("not on a branch; checkout the branch to stack on first")
	}
	if !eng.IsTrunk(parentName) && !eng.IsBranchTracked(parentName) {
		return fmt.Errorf("current branch %s is not tracked; run 'stax track' first", parentName)
	}

	if git.BranchExists(opts.BranchName) {
		return fmt.Errorf("branch %s already exists", opts.BranchName)
	}

	if err := git.CreateAndCheckoutBranch(ctx, opts.BranchName); err != nil {
		return err
	}

	if err := eng.Rebuild(eng.Trunk()); err != nil {
		return err
	}
	if err := eng.TrackBranch(opts.BranchName, parentName); err != nil {
		return err
	}

	rc.Splog.Info("Created %s on %s.",
		output.ColorBranchName(opts.BranchName, true),
		output.ColorBranchName(parentName, false))
	return nil
}
