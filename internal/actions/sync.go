package actions

import (
	"context"
	"fmt"

	"stax.dev/stax/internal/config"
	"stax.dev/stax/internal/engine"
	"stax.dev/stax/internal/git"
	"stax.dev/stax/internal/runtime"
)

// SyncAction pulls trunk and restacks every tracked stack on top of it.
// A conflict inside one stack suspends the whole sync: a sync frame holding
// the stacks not yet visited, with the conflicted stack's restack frame on
// top of it.
func SyncAction(ctx context.Context, rc *runtime.Context) error {
	eng := rc.Engine
	splog := rc.Splog

	if err := CheckCleanPreconditions(ctx, rc); err != nil {
		return err
	}

	if git.HasRemote(ctx, "origin") {
		if err := eng.PullTrunk(ctx); err != nil {
			return fmt.Errorf("failed to pull %s: %w", eng.Trunk(), err)
		}
		splog.Info("Pulled %s.", eng.Trunk())
	} else {
		// A repo without a remote is fine; sync still restacks local stacks.
		splog.Debug("no origin remote, skipping trunk pull")
	}

	roots := eng.GetChildren(eng.Trunk())
	if len(roots) == 0 {
		splog.Info("No tracked branches to sync.")
		return nil
	}

	return restackRoots(ctx, rc, roots, false)
}

// restackRoots restacks each stack root and its descendants in order.
// When resuming, the caller's sync frame is the current top: it is replaced
// with the shrinking remainder (or popped once finished) so a completed
// root is never visited again.
func restackRoots(ctx context.Context, rc *runtime.Context, roots []string, resuming bool) error {
	eng := rc.Engine
	store := rc.Continuations

	for i, root := range roots {
		plan, err := eng.PlanRestack(root, engine.ScopeUpstackInclusive)
		if err != nil {
			return err
		}

		payload, err := ExecuteRestackSteps(ctx, plan, rc)
		if err != nil {
			return err
		}
		if payload == nil {
			continue
		}

		// Suspend: remaining roots first (they resume after the conflicted
		// stack finishes), then the restack frame on top.
		remaining := roots[i+1:]
		if len(remaining) > 0 {
			syncFrame := &config.Frame{
				Kind: config.FrameKindSync,
				Sync: &config.SyncPayload{RemainingRoots: remaining},
			}
			if resuming {
				err = store.ReplaceTop(syncFrame)
			} else {
				err = store.Push(syncFrame)
			}
			if err != nil {
				return fmt.Errorf("failed to persist continuation: %w", err)
			}
		} else if resuming {
			if _, err := store.Pop(); err != nil {
				return err
			}
		}

		return suspendRestack(ctx, rc, payload)
	}

	if resuming {
		if _, err := store.Pop(); err != nil {
			return err
		}
	}
	return nil
}
