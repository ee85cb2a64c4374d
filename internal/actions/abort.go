package actions

import (
	"context"
	"fmt"

	staxerrors "stax.dev/stax/internal/errors"
	"stax.dev/stax/internal/git"
	"stax.dev/stax/internal/runtime"
)

// AbortAction abandons the pending continuation chain: any in-progress
// rebase is aborted and the persisted frames are discarded. Steps that had
// already completed keep their recorded state.
func AbortAction(ctx context.Context, rc *runtime.Context) error {
	if !rc.Continuations.HasPending() && !git.IsRebaseInProgress(ctx) {
		return fmt.Errorf("%w: nothing to abort", staxerrors.ErrNoPendingOperation)
	}

	if git.IsRebaseInProgress(ctx) {
		if err := git.RebaseAbort(ctx); err != nil {
			return err
		}
	}

	if err := rc.Continuations.Clear(); err != nil {
		return err
	}

	rc.Splog.Info("Aborted the pending operation.")
	return nil
}
