package actions

import (
	"fmt"

	"stax.dev/stax/internal/output"
	"stax.dev/stax/internal/runtime"
)

// TrackOptions contains options for the track command
type TrackOptions struct {
	BranchName string
	ParentName string
}

// TrackAction records a branch in the relationship store
func TrackAction(rc *runtime.Context, opts TrackOptions) error {
	eng := rc.Engine

	branchName := opts.BranchName
	if branchName == "" {
		branchName = eng.CurrentBranch()
	}
	if branchName == "" {
		return fmt.Errorf("no branch specified and not on a branch")
	}

	if eng.IsTrunk(branchName) {
		return fmt.Errorf("cannot track trunk branch %s", branchName)
	}
	if eng.IsBranchTracked(branchName) {
		return fmt.Errorf("branch %s is already tracked", branchName)
	}

	parentName := opts.ParentName
	if parentName == "" {
		parentName = eng.Trunk()
	}

	if err := eng.TrackBranch(branchName, parentName); err != nil {
		return err
	}

	rc.Splog.Info("Tracked %s with parent %s.",
		output.ColorBranchName(branchName, branchName == eng.CurrentBranch()),
		output.ColorBranchName(parentName, false))
	return nil
}

// UntrackAction removes a branch from the relationship store
func UntrackAction(rc *runtime.Context, branchName string) error {
	eng := rc.Engine

	if branchName == "" {
		branchName = eng.CurrentBranch()
	}
	if branchName == "" {
		return fmt.Errorf("no branch specified and not on a branch")
	}

	if err := eng.UntrackBranch(branchName); err != nil {
		return err
	}

	rc.Splog.Info("Untracked %s. The git branch itself is unchanged.",
		output.ColorBranchName(branchName, branchName == eng.CurrentBranch()))
	return nil
}
