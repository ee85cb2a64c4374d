package testhelpers

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"stax.dev/stax/internal/config"
	"stax.dev/stax/internal/engine"
	"stax.dev/stax/internal/git"
	"stax.dev/stax/internal/output"
	"stax.dev/stax/internal/runtime"
)

// Scenario combines a real git repository, an engine, and a runtime context
// for a terse integration test API. Not safe for parallel tests: it points
// the package-level git runner at the scenario's repository.
type Scenario struct {
	T       *testing.T
	Repo    *GitRepo
	Engine  engine.Engine
	Context *runtime.Context
}

// NewScenario creates a fresh repository with an initial commit on main,
// initializes stax with main as trunk, and builds an engine over it.
func NewScenario(t *testing.T) *Scenario {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "stax-test-*")
	require.NoError(t, err)

	repo, err := NewGitRepo(tmpDir)
	require.NoError(t, err)

	require.NoError(t, repo.CreateChangeAndCommit("initial", "init"))

	git.SetWorkingDir(tmpDir)
	git.ResetDefaultRepo()
	require.NoError(t, git.InitDefaultRepo())

	// tmpDir may be a symlink (macOS /tmp); use git's own idea of the root
	repoRoot, err := git.GetRepoRoot()
	require.NoError(t, err)

	require.NoError(t, config.SetTrunk(repoRoot, "main"))

	eng, err := engine.NewEngine(repoRoot)
	require.NoError(t, err)

	rc := runtime.NewContext(eng, repoRoot)
	rc.Splog = output.NewSplogWithWriter(io.Discard)

	t.Cleanup(func() {
		git.SetWorkingDir("")
		git.ResetDefaultRepo()
		if os.Getenv("DEBUG") == "" {
			os.RemoveAll(tmpDir)
		}
	})

	return &Scenario{
		T:       t,
		Repo:    repo,
		Engine:  eng,
		Context: rc,
	}
}

// WithBareRemote clones the repository into a bare directory and wires it
// up as origin, so pull and fetch paths can run against a real remote.
func (s *Scenario) WithBareRemote() *Scenario {
	s.T.Helper()

	remoteDir, err := os.MkdirTemp("", "stax-remote-*")
	require.NoError(s.T, err)
	s.T.Cleanup(func() {
		if os.Getenv("DEBUG") == "" {
			os.RemoveAll(remoteDir)
		}
	})

	require.NoError(s.T, s.Repo.RunGitCommand("clone", "--bare", ".", remoteDir))
	require.NoError(s.T, s.Repo.RunGitCommand("remote", "add", "origin", remoteDir))
	return s
}

// RepoRoot returns the repository root the engine was built over.
func (s *Scenario) RepoRoot() string {
	return s.Context.RepoRoot
}

// RunGit runs a git command in the scenario's repository.
func (s *Scenario) RunGit(args ...string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Repo.RunGitCommand(args...))
	return s
}

// Checkout checks out a branch and rebuilds the engine.
func (s *Scenario) Checkout(branch string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Repo.CheckoutBranch(branch))
	return s.Rebuild()
}

// CreateBranch creates and checks out a new branch and rebuilds the engine.
func (s *Scenario) CreateBranch(name string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Repo.CreateAndCheckoutBranch(name))
	return s.Rebuild()
}

// Commit creates an empty commit with the given message.
func (s *Scenario) Commit(message string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Repo.RunGitCommand("commit", "--allow-empty", "-m", message))
	return s
}

// CommitChange writes a file change and commits it.
func (s *Scenario) CommitChange(name, message string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Repo.CreateChange(message, name, false))
	require.NoError(s.T, s.Repo.RunGitCommand("commit", "-m", message))
	return s
}

// TrackBranch tracks a branch with a parent.
func (s *Scenario) TrackBranch(branch, parent string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Engine.TrackBranch(branch, parent))
	return s
}

// Rebuild refreshes the engine state from the repository.
func (s *Scenario) Rebuild() *Scenario {
	s.T.Helper()
	git.ResetDefaultRepo()
	require.NoError(s.T, git.InitDefaultRepo())
	require.NoError(s.T, s.Engine.Rebuild(s.Engine.Trunk()))
	return s
}

// ContinuationPath returns the path of the persisted continuation file.
func (s *Scenario) ContinuationPath() string {
	return filepath.Join(s.RepoRoot(), ".git", ".stax_continue")
}
