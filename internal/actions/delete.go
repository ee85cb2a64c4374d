package actions

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"stax.dev/stax/internal/output"
	"stax.dev/stax/internal/runtime"
)

// DeleteOptions contains options for deleting a branch
type DeleteOptions struct {
	BranchName string
	Force      bool
}

// DeleteAction deletes a branch and its metadata. Children are reparented
// onto the deleted branch's parent; when children exist the user is asked
// to confirm unless --force is given.
func DeleteAction(ctx context.Context, rc *runtime.Context, opts DeleteOptions) error {
	eng := rc.Engine
	splog := rc.Splog

	branchName := opts.BranchName
	if branchName == "" {
		branchName = eng.CurrentBranch()
	}
	if branchName == "" {
		return fmt.Errorf("no branch specified and not on a branch")
	}

	if eng.IsTrunk(branchName) {
		return fmt.Errorf("cannot delete trunk branch %s", branchName)
	}

	children := eng.GetChildren(branchName)
	if len(children) > 0 && !opts.Force {
		parent := eng.GetParent(branchName)
		if parent == "" {
			parent = eng.Trunk()
		}
		confirmed := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("%s has %d child branch(es) that will be reparented onto %s. Delete it?",
				branchName, len(children), parent),
		}
		if err := survey.AskOne(prompt, &confirmed); err != nil {
			return err
		}
		if !confirmed {
			splog.Info("Cancelled.")
			return nil
		}
	}

	if err := eng.DeleteBranch(ctx, branchName); err != nil {
		return err
	}

	splog.Info("Deleted %s.", output.ColorBranchName(branchName, false))
	for _, child := range children {
		splog.Info("Reparented %s onto %s.",
			output.ColorBranchName(child, false),
			output.ColorBranchName(eng.GetParent(child), false))
	}
	return nil
}
