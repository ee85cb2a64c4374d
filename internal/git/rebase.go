package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing"
)

// RebaseResult represents the result of a rebase operation
type RebaseResult int

const (
	// RebaseDone indicates the rebase was successful
	RebaseDone RebaseResult = iota
	// RebaseConflict indicates a conflict occurred during rebase
	RebaseConflict
)

// RebaseOnto replays branchName's commits on top of newBase.
// oldBase is the recorded parent revision the branch was previously stacked
// on; commits between oldBase and the branch tip are the ones replayed.
//
// The rebase runs on a detached HEAD and the branch ref is updated
// afterwards, which avoids "already used by worktree" errors. On conflict
// the in-progress rebase is left in place for the user to resolve.
func RebaseOnto(ctx context.Context, branchName, newBase, oldBase string) (RebaseResult, error) {
	// Save current branch/detached HEAD so it can be restored
	currentBranch, err := GetCurrentBranch()
	var currentRev string
	if err != nil {
		currentBranch = ""
		currentRev, _ = RunGitCommandWithContext(ctx, "rev-parse", "HEAD")
	}

	branchRev, err := RunGitCommandWithContext(ctx, "rev-parse", branchName)
	if err != nil {
		return RebaseConflict, fmt.Errorf("failed to get revision for %s: %w", branchName, err)
	}

	// git rebase --onto <newBase> <oldBase> <branchRev>
	_, err = RunGitCommandWithContext(ctx, "rebase", "--onto", newBase, oldBase, branchRev)
	if err != nil {
		if IsRebaseInProgress(ctx) {
			// Conflict: record which branch is mid-rebase so the branch ref
			// can be fixed up once the user resolves and continues.
			writeRebasedBranchMarker(ctx, branchName)
			return RebaseConflict, nil
		}
		// Failed for another reason; abort and restore the original state
		_, _ = RunGitCommandWithContext(ctx, "rebase", "--abort")
		restoreHead(ctx, currentBranch, currentRev)
		return RebaseConflict, err
	}

	newRev, err := RunGitCommandWithContext(ctx, "rev-parse", "HEAD")
	if err != nil {
		return RebaseConflict, fmt.Errorf("failed to get new revision after rebase: %w", err)
	}

	if err := UpdateBranchRef(branchName, newRev); err != nil {
		return RebaseConflict, err
	}

	restoreHead(ctx, currentBranch, currentRev)
	return RebaseDone, nil
}

func restoreHead(ctx context.Context, currentBranch, currentRev string) {
	if currentBranch != "" {
		if err := CheckoutBranch(ctx, currentBranch); err != nil {
			_ = CheckoutDetached(ctx, currentBranch)
		}
	} else if currentRev != "" {
		_ = CheckoutDetached(ctx, currentRev)
	}
}

// IsRebaseInProgress checks if a rebase is currently in progress.
// The check is structural: the presence of git's own rebase state
// directories, never the text output of a command.
func IsRebaseInProgress(ctx context.Context) bool {
	// Check for .git/rebase-merge or .git/rebase-apply directories.
	// This is more reliable than checking REBASE_HEAD which can persist
	// after a rebase finishes.
	gitDir, err := RunGitCommandWithContext(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return false
	}

	if _, err := os.Stat(filepath.Join(gitDir, "rebase-merge")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(gitDir, "rebase-apply")); err == nil {
		return true
	}
	return false
}

// RebaseContinue continues an in-progress rebase. The caller is expected to
// have resolved and staged any conflicted files first.
func RebaseContinue(ctx context.Context) (RebaseResult, error) {
	_, err := RunGitCommandWithContext(ctx, "-c", "core.editor=true", "rebase", "--continue")
	if err != nil {
		if IsRebaseInProgress(ctx) {
			return RebaseConflict, nil
		}
		return RebaseConflict, fmt.Errorf("rebase continue failed: %w", err)
	}

	return RebaseDone, nil
}

// RebaseAbort aborts an in-progress rebase
func RebaseAbort(ctx context.Context) error {
	_, err := RunGitCommandWithContext(ctx, "rebase", "--abort")
	if err != nil {
		return fmt.Errorf("rebase abort failed: %w", err)
	}
	ClearRebasedBranchMarker(ctx)
	return nil
}

// GetRebaseHead returns the commit being rebased (REBASE_HEAD)
func GetRebaseHead() (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}

	refs := []plumbing.ReferenceName{
		"refs/rebase-merge/head",
		"refs/rebase-apply/head",
		"REBASE_HEAD",
	}

	for _, refName := range refs {
		ref, err := repo.Reference(refName, true)
		if err == nil {
			return ref.Hash().String(), nil
		}
	}

	return "", fmt.Errorf("rebase head not found")
}

const rebasedBranchMarker = ".stax_rebased_branch"

// writeRebasedBranchMarker records which branch the detached-HEAD rebase
// belongs to, so the ref update can happen after `rebase --continue`.
func writeRebasedBranchMarker(ctx context.Context, branchName string) {
	gitDir, err := RunGitCommandWithContext(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(gitDir, rebasedBranchMarker), []byte(branchName), 0600)
}

// ReadRebasedBranchMarker returns the branch an interrupted rebase belongs to
func ReadRebasedBranchMarker(ctx context.Context) (string, error) {
	gitDir, err := RunGitCommandWithContext(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(gitDir, rebasedBranchMarker))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ClearRebasedBranchMarker removes the interrupted-rebase branch marker
func ClearRebasedBranchMarker(ctx context.Context) {
	gitDir, err := RunGitCommandWithContext(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return
	}
	_ = os.Remove(filepath.Join(gitDir, rebasedBranchMarker))
}
