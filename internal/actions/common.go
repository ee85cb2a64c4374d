// Package actions implements the operations behind the CLI commands.
package actions

import (
	"context"
	"fmt"

	"stax.dev/stax/internal/config"
	"stax.dev/stax/internal/engine"
	staxerrors "stax.dev/stax/internal/errors"
	"stax.dev/stax/internal/git"
	"stax.dev/stax/internal/output"
	"stax.dev/stax/internal/runtime"
)

// CheckCleanPreconditions refuses a stack-mutating command before any
// planning or mutation happens: an unresolved continuation, an in-progress
// rebase, or uncommitted changes all fail fast with no partial state change.
func CheckCleanPreconditions(ctx context.Context, rc *runtime.Context) error {
	if rc.Continuations.HasPending() {
		return fmt.Errorf("%w: a previous command is waiting on conflict resolution (run 'stax continue' or 'stax abort' first)",
			staxerrors.ErrDirtyWorkingState)
	}

	if git.IsRebaseInProgress(ctx) {
		return fmt.Errorf("%w: a rebase is in progress (finish it or run 'git rebase --abort')",
			staxerrors.ErrDirtyWorkingState)
	}

	clean, err := git.IsWorkingTreeClean(ctx)
	if err != nil {
		return err
	}
	if !clean {
		return fmt.Errorf("%w: commit or stash your changes first", staxerrors.ErrDirtyWorkingState)
	}

	return nil
}

// ExecuteRestackSteps consumes plan steps one at a time. On a conflict it
// stops immediately and returns the suspension payload: the remaining
// suffix of the plan plus the step whose rebase is still in progress.
// A nil payload means every step completed. Non-conflict failures are
// returned as errors with nothing persisted.
func ExecuteRestackSteps(ctx context.Context, steps []engine.RestackStep, rc *runtime.Context) (*config.RestackPayload, error) {
	eng := rc.Engine
	splog := rc.Splog

	for i, step := range steps {
		result, err := eng.ExecuteRestackStep(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("failed to restack %s: %w", step.Branch, err)
		}

		parent := eng.GetParent(step.Branch)
		switch result.Result {
		case engine.RestackDone:
			splog.Info("Restacked %s on %s.",
				output.ColorBranchName(step.Branch, step.Branch == eng.CurrentBranch()),
				output.ColorBranchName(parent, false))
		case engine.RestackUnneeded:
			splog.Info("%s does not need to be restacked on %s.",
				output.ColorBranchName(step.Branch, step.Branch == eng.CurrentBranch()),
				output.ColorBranchName(parent, false))
		case engine.RestackConflict:
			return &config.RestackPayload{
				RemainingPlan: steps[i+1:],
				PendingBranch: step.Branch,
				PendingBase:   result.NewParentRevision,
			}, nil
		}
	}

	return nil, nil
}

// suspendRestack persists the payload as a new top frame and tells the user
// what to do next.
func suspendRestack(ctx context.Context, rc *runtime.Context, payload *config.RestackPayload) error {
	frame := &config.Frame{Kind: config.FrameKindRestack, Restack: payload}
	if err := rc.Continuations.Push(frame); err != nil {
		return fmt.Errorf("failed to persist continuation: %w", err)
	}

	PrintConflictStatus(ctx, payload.PendingBranch, rc.Splog)
	return staxerrors.NewRebaseConflictError(payload.PendingBranch, "resolve conflicts and run 'stax continue'")
}
