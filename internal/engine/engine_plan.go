package engine

import (
	"context"
	"fmt"

	"stax.dev/stax/internal/git"
)

// PlanRestack walks the relationship store and returns the ordered rebase
// steps for branchName's stack, parent-before-child. A branch is included
// when its recorded parent revision no longer matches the parent's live tip,
// or when an ancestor is itself in the plan (its tip will move). Branches
// already consistent are excluded, so planning twice in a row yields an
// empty plan the second time.
func (e *engineImpl) PlanRestack(branchName string, scope Scope) ([]RestackStep, error) {
	if !e.IsTrunk(branchName) && !e.IsBranchTracked(branchName) {
		return nil, fmt.Errorf("branch %s is not tracked", branchName)
	}

	candidates := e.GetRelativeStack(branchName, scope)

	inPlan := make(map[string]bool)
	var steps []RestackStep
	for _, candidate := range candidates {
		if e.IsTrunk(candidate) || !e.IsBranchTracked(candidate) {
			continue
		}

		parent := e.GetParent(candidate)
		if !inPlan[parent] && e.IsBranchFixed(candidate) {
			continue
		}

		step := RestackStep{Branch: candidate}
		if !inPlan[parent] {
			// Parent is not moving; its current tip is the rebase target.
			// When the parent is an earlier step, its post-rebase tip is
			// unknowable now and gets resolved at execution time.
			tip, err := e.GetRevision(parent)
			if err != nil {
				return nil, fmt.Errorf("failed to get revision for %s: %w", parent, err)
			}
			step.NewParentRevision = tip
		}

		inPlan[candidate] = true
		steps = append(steps, step)
	}

	return steps, nil
}

// ExecuteRestackStep performs one plan step: rebase the branch onto its
// parent's tip. On success the recorded parent revision is advanced; on
// conflict nothing is persisted and the in-progress rebase is left for the
// user. Any non-conflict failure from git is returned as an error.
func (e *engineImpl) ExecuteRestackStep(ctx context.Context, step RestackStep) (RestackStepResult, error) {
	e.mu.RLock()
	parent, ok := e.parentMap[step.Branch]
	recorded := e.revisionMap[step.Branch]
	e.mu.RUnlock()

	if !ok {
		return RestackStepResult{Result: RestackUnneeded}, fmt.Errorf("branch %s is not tracked", step.Branch)
	}

	newBase := step.NewParentRevision
	if newBase == "" {
		tip, err := e.GetRevision(parent)
		if err != nil {
			return RestackStepResult{}, fmt.Errorf("failed to get parent revision: %w", err)
		}
		newBase = tip
	}

	oldBase := recorded
	if oldBase == "" {
		mergeBase, err := git.GetMergeBase(step.Branch, parent)
		if err != nil {
			return RestackStepResult{}, fmt.Errorf("failed to get merge base: %w", err)
		}
		oldBase = mergeBase
	}

	if oldBase == newBase {
		return RestackStepResult{Result: RestackUnneeded, NewParentRevision: newBase}, nil
	}

	gitResult, err := git.RebaseOnto(ctx, step.Branch, newBase, oldBase)
	if err != nil {
		return RestackStepResult{}, err
	}

	if gitResult == git.RebaseConflict {
		return RestackStepResult{Result: RestackConflict, NewParentRevision: newBase}, nil
	}

	if err := e.recordParentRevision(step.Branch, newBase); err != nil {
		return RestackStepResult{Result: RestackDone, NewParentRevision: newBase}, err
	}

	return RestackStepResult{Result: RestackDone, NewParentRevision: newBase}, nil
}

// ContinueRestack finishes the in-progress rebase of pendingBranch. The
// rebase ran on a detached HEAD, so on success the branch ref is pointed at
// the rebased tip and checked out before the parent revision is recorded.
func (e *engineImpl) ContinueRestack(ctx context.Context, pendingBranch, pendingBase string) (RestackResult, error) {
	gitResult, err := git.RebaseContinue(ctx)
	if err != nil {
		return RestackConflict, err
	}
	if gitResult == git.RebaseConflict {
		return RestackConflict, nil
	}

	newRev, err := git.GetRevision("HEAD")
	if err != nil {
		return RestackConflict, fmt.Errorf("failed to get rebased revision: %w", err)
	}
	if err := git.UpdateBranchRef(pendingBranch, newRev); err != nil {
		return RestackConflict, err
	}
	if err := git.CheckoutBranch(ctx, pendingBranch); err != nil {
		return RestackConflict, err
	}
	git.ClearRebasedBranchMarker(ctx)

	e.mu.Lock()
	e.currentBranch = pendingBranch
	e.mu.Unlock()

	if err := e.recordParentRevision(pendingBranch, pendingBase); err != nil {
		return RestackDone, err
	}

	return RestackDone, nil
}

// recordParentRevision advances the recorded parent revision after a
// confirmed successful rebase. This is the only place the revision moves,
// so an interrupted step never persists a partially-applied state.
func (e *engineImpl) recordParentRevision(branchName, revision string) error {
	meta, err := git.ReadMetadataRef(branchName)
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	meta.ParentBranchRevision = &revision
	if err := git.WriteMetadataRef(branchName, meta); err != nil {
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	e.mu.Lock()
	e.revisionMap[branchName] = revision
	e.mu.Unlock()

	return nil
}
