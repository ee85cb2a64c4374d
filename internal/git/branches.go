package git

import (
	"context"
	"fmt"
	"strings"
)

func splitLines(output string) []string {
	return strings.Split(strings.TrimSpace(output), "\n")
}

// GetAllBranchNames returns all branch names in the repository
func GetAllBranchNames() ([]string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return nil, err
	}
	return repo.GetBranchNames()
}

// GetCurrentBranch returns the current branch name
func GetCurrentBranch() (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}
	return repo.GetCurrentBranch()
}

// BranchExists checks whether a local branch with the given name exists
func BranchExists(branchName string) bool {
	_, err := RunGitCommand("show-ref", "--verify", "--quiet", "refs/heads/"+branchName)
	return err == nil
}

// GetRevision returns the SHA of a branch
func GetRevision(branchName string) (string, error) {
	return RunGitCommand("rev-parse", branchName)
}

// CheckoutBranch checks out a branch
func CheckoutBranch(ctx context.Context, branchName string) error {
	_, err := RunGitCommandWithContext(ctx, "checkout", branchName)
	if err != nil {
		return fmt.Errorf("failed to checkout %s: %w", branchName, err)
	}
	return nil
}

// CheckoutDetached checks out a revision in detached HEAD state
func CheckoutDetached(ctx context.Context, revision string) error {
	_, err := RunGitCommandWithContext(ctx, "checkout", "--detach", revision)
	if err != nil {
		return fmt.Errorf("failed to checkout detached %s: %w", revision, err)
	}
	return nil
}

// CreateAndCheckoutBranch creates a new branch and checks it out
func CreateAndCheckoutBranch(ctx context.Context, branchName string) error {
	_, err := RunGitCommandWithContext(ctx, "checkout", "-b", branchName)
	if err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branchName, err)
	}
	return nil
}

// DeleteBranch force-deletes a local branch
func DeleteBranch(ctx context.Context, branchName string) error {
	_, err := RunGitCommandWithContext(ctx, "branch", "-D", branchName)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

// UpdateBranchRef points a branch ref at a revision without checking it out
func UpdateBranchRef(branchName, revision string) error {
	_, err := RunGitCommand("update-ref", "refs/heads/"+branchName, revision)
	if err != nil {
		return fmt.Errorf("failed to update branch reference %s: %w", branchName, err)
	}
	return nil
}

// GetMergeBase returns the merge base of two revisions
func GetMergeBase(rev1, rev2 string) (string, error) {
	return RunGitCommand("merge-base", rev1, rev2)
}

// IsAncestor checks if ancestor is an ancestor of descendant
func IsAncestor(ancestor, descendant string) (bool, error) {
	_, err := RunGitCommand("merge-base", "--is-ancestor", ancestor, descendant)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// IsWorkingTreeClean reports whether the worktree has no uncommitted changes.
// Untracked files do not block stack mutations, matching git rebase itself.
func IsWorkingTreeClean(ctx context.Context) (bool, error) {
	output, err := RunGitCommandWithContext(ctx, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return false, err
	}
	return output == "", nil
}

// StageAll stages all changes in the worktree
func StageAll(ctx context.Context) error {
	_, err := RunGitCommandWithContext(ctx, "add", "--all")
	if err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// GetUnmergedFiles returns the files currently in a conflicted state
func GetUnmergedFiles(ctx context.Context) ([]string, error) {
	output, err := RunGitCommandWithContext(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return splitLines(output), nil
}

// HasRemote reports whether the named remote is configured
func HasRemote(ctx context.Context, remote string) bool {
	_, err := RunGitCommandWithContext(ctx, "remote", "get-url", remote)
	return err == nil
}

// PullBranch fast-forwards branchName from the given remote. When the
// branch is checked out this is a plain ff-only pull; otherwise the ref is
// updated directly through a fetch refspec, which refuses non-fast-forward
// updates and never touches the worktree or the current branch.
func PullBranch(ctx context.Context, remote, branchName string) error {
	current, err := GetCurrentBranch()
	if err == nil && current == branchName {
		if _, err := RunGitCommandWithContext(ctx, "pull", "--ff-only", remote, branchName); err != nil {
			return fmt.Errorf("failed to pull %s from %s: %w", branchName, remote, err)
		}
		return nil
	}

	refspec := fmt.Sprintf("refs/heads/%s:refs/heads/%s", branchName, branchName)
	if _, err := RunGitCommandWithContext(ctx, "fetch", remote, refspec); err != nil {
		return fmt.Errorf("failed to fetch %s from %s: %w", branchName, remote, err)
	}
	return nil
}
