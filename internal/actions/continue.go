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

// ContinueOptions are options for the continue command
type ContinueOptions struct {
	AddAll bool
}

// ContinueAction resumes the most recent command halted by a rebase
// conflict. It first drives the in-progress rebase to completion, then
// unwinds the persisted frame chain until it is empty or another conflict
// suspends it again.
func ContinueAction(ctx context.Context, rc *runtime.Context, opts ContinueOptions) error {
	store := rc.Continuations

	top, err := store.Peek()
	if err != nil {
		return err
	}
	if top == nil {
		return fmt.Errorf("%w: nothing to continue", staxerrors.ErrNoPendingOperation)
	}

	if opts.AddAll {
		if err := git.StageAll(ctx); err != nil {
			return err
		}
	}

	if err := finishPendingRebase(ctx, rc, top); err != nil {
		return err
	}

	if err := popAndResume(ctx, rc); err != nil {
		return err
	}

	rc.Splog.Info("All pending operations completed.")
	return nil
}

// finishPendingRebase completes the rebase the top frame was suspended on.
// If the user aborted the rebase out-of-band, the pending step is put back
// at the front of the remaining plan so it gets re-executed.
func finishPendingRebase(ctx context.Context, rc *runtime.Context, top *config.Frame) error {
	if top.Kind != config.FrameKindRestack || top.Restack == nil || top.Restack.PendingBranch == "" {
		return nil
	}

	store := rc.Continuations
	payload := top.Restack

	if !git.IsRebaseInProgress(ctx) {
		// Rebase was aborted or finished outside of stax: the parent
		// revision was never recorded, so the step runs again.
		retry := engine.RestackStep{
			Branch:            payload.PendingBranch,
			NewParentRevision: payload.PendingBase,
		}
		replaced := &config.RestackPayload{
			RemainingPlan: append([]engine.RestackStep{retry}, payload.RemainingPlan...),
		}
		return store.ReplaceTop(&config.Frame{Kind: config.FrameKindRestack, Restack: replaced})
	}

	result, err := rc.Engine.ContinueRestack(ctx, payload.PendingBranch, payload.PendingBase)
	if err != nil {
		return err
	}
	if result == engine.RestackConflict {
		PrintConflictStatus(ctx, payload.PendingBranch, rc.Splog)
		return staxerrors.NewRebaseConflictError(payload.PendingBranch, "conflict is not yet resolved")
	}

	rc.Splog.Info("Resolved rebase conflict for %s.", output.ColorBranchName(payload.PendingBranch, true))

	// The pending step is complete and recorded; persist the frame without
	// it so an interruption here cannot replay it.
	resolved := &config.RestackPayload{RemainingPlan: payload.RemainingPlan}
	return store.ReplaceTop(&config.Frame{Kind: config.FrameKindRestack, Restack: resolved})
}

// popAndResume pops and resumes frames until the chain is exhausted or a
// new conflict suspends it. Completing a frame cascades to its parent.
func popAndResume(ctx context.Context, rc *runtime.Context) error {
	store := rc.Continuations

	for {
		top, err := store.Peek()
		if err != nil {
			return err
		}
		if top == nil {
			return store.Clear()
		}

		switch top.Kind {
		case config.FrameKindRestack:
			if top.Restack == nil {
				return fmt.Errorf("malformed continuation state: restack frame has no payload")
			}
			payload, err := ExecuteRestackSteps(ctx, top.Restack.RemainingPlan, rc)
			if err != nil {
				return err
			}
			if payload != nil {
				// Replace rather than push: the frame's completed steps must
				// never run again.
				if err := store.ReplaceTop(&config.Frame{Kind: config.FrameKindRestack, Restack: payload}); err != nil {
					return err
				}
				PrintConflictStatus(ctx, payload.PendingBranch, rc.Splog)
				return staxerrors.NewRebaseConflictError(payload.PendingBranch, "resolve conflicts and run 'stax continue'")
			}
			if _, err := store.Pop(); err != nil {
				return err
			}

		case config.FrameKindSync:
			if top.Sync == nil {
				return fmt.Errorf("malformed continuation state: sync frame has no payload")
			}
			// restackRoots pops the frame itself once every root is done
			if err := restackRoots(ctx, rc, top.Sync.RemainingRoots, true); err != nil {
				return err
			}

		default:
			return fmt.Errorf("unknown continuation kind %q", top.Kind)
		}
	}
}
