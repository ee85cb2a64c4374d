// Package testhelpers provides a real-git test repository and a fluent
// scenario wrapper for integration tests.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const textFileName = "test.txt"

// GitRepo is a real git repository created in a temporary directory.
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new git repository in the given directory with
// main as the default branch.
func NewGitRepo(dir string) (*GitRepo, error) {
	repo := &GitRepo{Dir: dir}

	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "init", dir, "-b", "main")
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w", err)
	}

	if err := repo.RunGitCommand("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.RunGitCommand("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}

	return repo, nil
}

// RunGitCommand executes a git command in the repository directory.
func (r *GitRepo) RunGitCommand(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	return cmd.Run()
}

// RunGitCommandAndGetOutput executes a git command and returns its trimmed output.
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git command failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// CreateChange writes content to a file in the repository.
func (r *GitRepo) CreateChange(textValue string, prefix string, unstaged bool) error {
	fileName := textFileName
	if prefix != "" {
		fileName = prefix + "_" + fileName
	}
	filePath := filepath.Join(r.Dir, fileName)

	if err := os.WriteFile(filePath, []byte(textValue), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if !unstaged {
		return r.RunGitCommand("add", filePath)
	}
	return nil
}

// CreateChangeAndCommit writes a file change and commits it.
func (r *GitRepo) CreateChangeAndCommit(textValue string, prefix string) error {
	if err := r.CreateChange(textValue, prefix, false); err != nil {
		return err
	}
	return r.RunGitCommand("commit", "-m", textValue)
}

// CreateBranch creates a new branch without checking it out.
func (r *GitRepo) CreateBranch(name string) error {
	return r.RunGitCommand("branch", name)
}

// CreateAndCheckoutBranch creates and checks out a new branch.
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	return r.RunGitCommand("checkout", "-b", name)
}

// CheckoutBranch checks out a branch.
func (r *GitRepo) CheckoutBranch(name string) error {
	return r.RunGitCommand("checkout", name)
}

// DeleteBranch force-deletes a branch.
func (r *GitRepo) DeleteBranch(name string) error {
	return r.RunGitCommand("branch", "-D", name)
}

// CurrentBranch returns the checked out branch name.
func (r *GitRepo) CurrentBranch() (string, error) {
	return r.RunGitCommandAndGetOutput("branch", "--show-current")
}

// RevParse resolves a revision to a commit SHA.
func (r *GitRepo) RevParse(rev string) (string, error) {
	return r.RunGitCommandAndGetOutput("rev-parse", rev)
}
