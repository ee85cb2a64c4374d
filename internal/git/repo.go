package git

import (
	"fmt"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository wraps a go-git repository
type Repository struct {
	*gogit.Repository
	path string
}

// OpenRepository opens a git repository at the given path
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &Repository{
		Repository: repo,
		path:       absPath,
	}, nil
}

// GetRepoRoot returns the root directory of the Git repository
func GetRepoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	if defaultRunner.workingDir != "" {
		wd = defaultRunner.workingDir
	}

	repo, err := gogit.PlainOpenWithOptions(wd, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	return worktree.Filesystem.Root(), nil
}

var defaultRepo *Repository

// InitDefaultRepo initializes the default repository from the current directory
func InitDefaultRepo() error {
	if defaultRepo != nil {
		return nil // Already initialized
	}

	repoRoot, err := GetRepoRoot()
	if err != nil {
		return err
	}

	repo, err := OpenRepository(repoRoot)
	if err != nil {
		return err
	}

	defaultRepo = repo
	return nil
}

// ResetDefaultRepo clears the cached default repository. Used by tests that
// point the runner at a fresh repository.
func ResetDefaultRepo() {
	defaultRepo = nil
}

// GetDefaultRepo returns the default repository (must call InitDefaultRepo first)
func GetDefaultRepo() (*Repository, error) {
	if defaultRepo == nil {
		return nil, fmt.Errorf("repository not initialized, call InitDefaultRepo first")
	}
	return defaultRepo, nil
}

// GetBranchNames returns all branch names
func (r *Repository) GetBranchNames() ([]string, error) {
	branches, err := r.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}

	var names []string
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsBranch() {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	return names, nil
}

// GetCurrentBranch returns the current branch name
func (r *Repository) GetCurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is not on a branch")
	}

	return head.Name().Short(), nil
}
